package api

import (
	"context"

	"github.com/saadraza/portfolio-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser attaches the resolved user to the request context.
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the resolved user, or nil when the request is
// unauthenticated.
func ctxGetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
