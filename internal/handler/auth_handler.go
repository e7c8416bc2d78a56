package handlers

import (
	"encoding/json"
	"net/http"
	"unicode"

	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type SignUpRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=20"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword      string `json:"currentPassword" validate:"required"`
	NewPassword          string `json:"newPassword" validate:"required"`
	TerminateAllSessions bool   `json:"terminateAllSessions"`
}

// isStrongPassword requires at least 8 characters covering a lowercase
// letter, an uppercase letter, a digit, and a symbol.
func isStrongPassword(password string) bool {
	var length, lower, upper, digit, symbol bool
	count := 0
	for _, r := range password {
		count++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	length = count >= 8
	return length && lower && upper && digit && symbol
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "invalid signup data", http.StatusBadRequest)
		return
	}

	if !isStrongPassword(req.Password) {
		WriteError(w, "password must be at least 8 characters and include a lowercase letter, an uppercase letter, a digit, and a symbol", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.SignUp(r.Context(), service.SignUpRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "identifier and password are required", http.StatusBadRequest)
		return
	}

	user, pair, err := h.AuthService.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	SetAuthCookies(w, h.Cfg, pair)
	writeSuccess(w, user, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := CookieValue(r, AccessTokenCookie)
	refreshToken := CookieValue(r, RefreshTokenCookie)

	if err := h.AuthService.SignOut(r.Context(), accessToken, refreshToken); err != nil {
		writeServiceError(w, err)
		return
	}

	ClearAuthCookies(w)
	writeSuccess(w, map[string]string{"message": "logged out"}, http.StatusOK)
}

func (h *Handlers) GetAuthenticatedUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}
	writeSuccess(w, user, http.StatusOK)
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		WriteError(w, "token is required", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.VerifyEmailAddress(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "email verified"}, http.StatusOK)
}

func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := h.Validate.Var(email, "required,email"); err != nil {
		WriteError(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.SendPasswordResetLink(r.Context(), email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "password reset link sent"}, http.StatusOK)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "token and password are required", http.StatusBadRequest)
		return
	}

	if !isStrongPassword(req.Password) {
		WriteError(w, "password must be at least 8 characters and include a lowercase letter, an uppercase letter, a digit, and a symbol", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "password updated"}, http.StatusOK)
}

func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "current and new passwords are required", http.StatusBadRequest)
		return
	}

	if !isStrongPassword(req.NewPassword) {
		WriteError(w, "password must be at least 8 characters and include a lowercase letter, an uppercase letter, a digit, and a symbol", http.StatusBadRequest)
		return
	}

	err := h.AuthService.UpdatePassword(r.Context(), user, req.CurrentPassword, req.NewPassword, req.TerminateAllSessions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.TerminateAllSessions {
		ClearAuthCookies(w)
	}

	writeSuccess(w, map[string]string{"message": "password updated"}, http.StatusOK)
}
