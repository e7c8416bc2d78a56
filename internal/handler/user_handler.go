package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

// maxAvatarSize caps avatar uploads at 500KB.
const maxAvatarSize = 500 << 10

var allowedAvatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Bio       string `json:"bio" validate:"max=160"`
}

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		WriteError(w, "username query parameter is required", http.StatusBadRequest)
		return
	}

	users, err := h.UserService.SearchUsers(r.Context(), username, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, users, http.StatusOK)
}

func (h *Handlers) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		WriteError(w, "username query parameter is required", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "invalid profile data", http.StatusBadRequest)
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), user.UserID, service.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, updated, http.StatusOK)
}

func (h *Handlers) FollowUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	followingID := mux.Vars(r)["id"]
	if err := h.UserService.FollowUser(r.Context(), user, followingID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "user followed"}, http.StatusOK)
}

func (h *Handlers) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	followingID := mux.Vars(r)["id"]
	if err := h.UserService.UnfollowUser(r.Context(), user, followingID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "user unfollowed"}, http.StatusOK)
}

func (h *Handlers) GetFollowers(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	followers, err := h.UserService.GetFollowers(r.Context(), user, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, followers, http.StatusOK)
}

func (h *Handlers) GetFollowings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	followings, err := h.UserService.GetFollowings(r.Context(), user, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, followings, http.StatusOK)
}

func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "avatar image is too large or the form is malformed", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteError(w, "avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		WriteError(w, "avatar image must be at most 500KB", http.StatusBadRequest)
		return
	}
	if !allowedAvatarExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		WriteError(w, "avatar must be a png, jpg, or jpeg image", http.StatusBadRequest)
		return
	}

	updated, err := h.UserService.UploadAvatar(r.Context(), user, header.Filename, file, header.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, updated, http.StatusOK)
}

func (h *Handlers) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	updated, err := h.UserService.RemoveAvatar(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, updated, http.StatusOK)
}
