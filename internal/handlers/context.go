package handlers

import (
	"context"

	"tourd/internal/models"
)

type ctxKey int

const userKey ctxKey = iota

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// currentUser returns the authenticated user attached by Protect or
// LoggedIn, or nil.
func currentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
