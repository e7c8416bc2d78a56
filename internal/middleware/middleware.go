package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	handlers "github.com/fouad-abdeen/SocialApp-Server/internal/handler"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type Middleware func(http.Handler) http.Handler

// publicRoutes lists the endpoints reachable without a session. Routes are
// matched per method because /auth/password is public for requesting and
// performing a reset but protected for changing a known password.
var publicRoutes = map[string][]string{
	"/auth/signup":       {http.MethodPost},
	"/auth/login":        {http.MethodPost},
	"/auth/email/verify": {http.MethodPut},
	"/auth/password":     {http.MethodGet, http.MethodPost},
	"/health":            {http.MethodGet},
}

func isPublicRoute(method, path string) bool {
	methods, ok := publicRoutes[path]
	if !ok {
		return false
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// SessionMiddleware resolves the session cookies into an authorized user.
// When the access token has gone stale but the refresh token still holds,
// the rotated pair is written back as fresh cookies on the same response.
func SessionMiddleware(authService service.AuthService, cfg *config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r.Method, r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			accessToken := handlers.CookieValue(r, handlers.AccessTokenCookie)
			refreshToken := handlers.CookieValue(r, handlers.RefreshTokenCookie)

			user, rotated, err := authService.Authorize(r.Context(), accessToken, refreshToken, r.URL.Path)
			if err != nil {
				if errors.Is(err, service.ErrForbidden) {
					handlers.WriteError(w, err.Error(), http.StatusForbidden)
					return
				}
				handlers.ClearAuthCookies(w)
				handlers.WriteError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			if rotated != nil {
				handlers.SetAuthCookies(w, cfg, rotated)
			}

			next.ServeHTTP(w, r.WithContext(handlers.ContextWithUser(r.Context(), user)))
		})
	}
}

// CORSMiddleware allows the configured frontend origin. Credentials must be
// allowed because the session travels in cookies.
func CORSMiddleware(allowedOrigin string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s took %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
