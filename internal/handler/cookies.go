package handlers

import (
	"net/http"

	"github.com/fouad-abdeen/SocialApp-Server/internal/auth"
	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies attaches both session tokens as httpOnly cookies. The
// refresh cookie outlives the access cookie so the session can rotate.
func SetAuthCookies(w http.ResponseWriter, cfg *config.Config, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(auth.ParseExpiry(cfg.AccessTokenExpiresIn)),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(auth.ParseExpiry(cfg.RefreshTokenExpiresIn)),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearAuthCookies expires both session cookies.
func ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}

// CookieValue reads a cookie value, returning "" when the cookie is absent.
func CookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
