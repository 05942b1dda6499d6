package policy

import (
	"context"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

type ctxKey string

const userCtxKey = ctxKey("user")

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(models.User)
	return u, ok && !u.ID.IsZero()
}
