package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
	appCtx "github.com/baechuer/user-service/internal/pkg/context"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (users.TokenClaims, error)
}

// UserLoader resolves the token subject to the stored user.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// DenyRecorder receives auth gate rejections of known users (optional).
type DenyRecorder interface {
	AccessDenied(ctx context.Context, userID, path, reason string)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token>, loads the user named by
// the token subject and rejects unknown (401) or inactive (403) users.
// The loaded user becomes the request Principal.
func Auth(verifier TokenVerifier, loader UserLoader, deny DenyRecorder, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			id, err := strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil || id <= 0 {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			u, err := loader.GetByID(r.Context(), id)
			if err != nil {
				// a token for a deleted user is no longer a valid credential
				if domain.Is(err, "user_not_found") {
					writeErr(w, r, domain.ErrTokenInvalid())
					return
				}
				writeErr(w, r, err)
				return
			}

			if !u.IsActive {
				if deny != nil {
					deny.AccessDenied(r.Context(), claims.UserID, r.URL.Path, "inactive_user")
				}
				writeErr(w, r, domain.ErrInactiveUser())
				return
			}

			ctx := WithPrincipal(r.Context(), principalFromUser(u))
			ctx = appCtx.WithActorID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
