package handlers

import (
	"context"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
)

type contextKey string

const userContextKey contextKey = "authorizedUser"

// ContextWithUser stores the authorized user for downstream handlers.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authorized user, or nil on public routes.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
