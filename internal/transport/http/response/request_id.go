package response

import (
	"net/http"

	appCtx "github.com/baechuer/user-service/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
