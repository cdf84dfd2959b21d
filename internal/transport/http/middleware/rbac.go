package middleware

import (
	"net/http"
	"strconv"

	"github.com/baechuer/user-service/internal/domain"
)

// RequireAdmin allows only principals whose stored role is "admin".
// Assumes Auth() has already run.
func RequireAdmin(deny DenyRecorder, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				// Auth not applied
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			if !domain.IsAdmin(p.Role) {
				if deny != nil {
					deny.AccessDenied(r.Context(), strconv.FormatInt(p.UserID, 10), r.URL.Path, "insufficient_role")
				}
				writeErr(w, r, domain.ErrInsufficientRole(string(domain.RoleAdmin)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
