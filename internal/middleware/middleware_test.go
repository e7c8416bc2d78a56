package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fouad-abdeen/SocialApp-Server/internal/auth"
	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	handlers "github.com/fouad-abdeen/SocialApp-Server/internal/handler"
	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type stubAuthService struct {
	service.AuthService
	authorize func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error)
	calls     int
}

func (s *stubAuthService) Authorize(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
	s.calls++
	return s.authorize(ctx, accessToken, refreshToken, requestPath)
}

func sessionTestConfig() *config.Config {
	return &config.Config{
		AccessTokenExpiresIn:  "15m",
		RefreshTokenExpiresIn: "24h",
	}
}

func TestSessionMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := handlers.UserFromContext(r.Context())
		if user != nil {
			fmt.Fprint(w, user.UserID)
			return
		}
		fmt.Fprint(w, "anonymous")
	})

	t.Run("skips public routes", func(t *testing.T) {
		stub := &stubAuthService{}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "anonymous", rr.Body.String())
		assert.Zero(t, stub.calls)
	})

	t.Run("protects /auth/password for updates only", func(t *testing.T) {
		stub := &stubAuthService{
			authorize: func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
				return nil, nil, fmt.Errorf("%w: authorization required", service.ErrUnauthorized)
			},
		}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/password", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Zero(t, stub.calls)

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/auth/password", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("passes the resolved user downstream", func(t *testing.T) {
		stub := &stubAuthService{
			authorize: func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
				assert.Equal(t, "access-token", accessToken)
				assert.Equal(t, "refresh-token", refreshToken)
				assert.Equal(t, "/posts", requestPath)
				return &models.User{UserID: "user-1"}, nil, nil
			},
		}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.AddCookie(&http.Cookie{Name: handlers.AccessTokenCookie, Value: "access-token"})
		req.AddCookie(&http.Cookie{Name: handlers.RefreshTokenCookie, Value: "refresh-token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-1", rr.Body.String())
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("writes rotated tokens back as cookies", func(t *testing.T) {
		stub := &stubAuthService{
			authorize: func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
				return &models.User{UserID: "user-1"}, &auth.TokenPair{
					AccessToken:  "new-access",
					RefreshToken: "new-refresh",
				}, nil
			},
		}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.AddCookie(&http.Cookie{Name: handlers.RefreshTokenCookie, Value: "refresh-token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		values := map[string]string{}
		for _, c := range rr.Result().Cookies() {
			values[c.Name] = c.Value
		}
		assert.Equal(t, "new-access", values[handlers.AccessTokenCookie])
		assert.Equal(t, "new-refresh", values[handlers.RefreshTokenCookie])
	})

	t.Run("clears cookies on a dead session", func(t *testing.T) {
		stub := &stubAuthService{
			authorize: func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
				return nil, nil, fmt.Errorf("%w: session could not be refreshed", service.ErrUnauthorized)
			},
		}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		for _, c := range rr.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge)
		}
	})

	t.Run("unverified restriction maps to 403 and keeps cookies", func(t *testing.T) {
		stub := &stubAuthService{
			authorize: func(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
				return nil, nil, fmt.Errorf("%w: email address is not verified", service.ErrForbidden)
			},
		}
		handler := SessionMiddleware(stub, sessionTestConfig())(next)

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	})
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		tag("inner"),
		tag("outer"),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/posts", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other requests pass through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
