package middleware

import (
	"context"

	"github.com/baechuer/user-service/internal/domain"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// Principal is the authenticated, active caller as loaded from the store.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok && p.UserID > 0
}

func principalFromUser(u domain.User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
