package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/infrastructure/memory"
	"github.com/baechuer/user-service/internal/infrastructure/security"
	"github.com/baechuer/user-service/internal/transport/http/middleware"
	"github.com/baechuer/user-service/internal/transport/http/response"
	"github.com/baechuer/user-service/internal/transport/http/validate"
)

type testEnv struct {
	repo  *memory.UserRepo
	svc   *users.Service
	users *UsersHandler
	auth  *AuthHandler
	admin domain.User
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	repo := memory.NewUserRepo()
	svc := users.NewService(
		repo,
		security.NewBcryptHasher(4),
		security.NewJWTSigner("test-secret", "user-service"),
		memory.NoopPublisher{},
		users.Config{},
	)

	val, err := validate.New("en")
	require.NoError(t, err)
	ew := response.NewErrorWriter(val)

	admin, _, err := svc.EnsureAdmin(context.Background(), "root@x.com", "adminpass1")
	require.NoError(t, err)

	return testEnv{
		repo:  repo,
		svc:   svc,
		users: NewUsersHandler(svc, val, ew.Write),
		auth:  NewAuthHandler(svc, val, ew.Write),
		admin: admin,
	}
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// mustReadJSON decodes the recorded body into out.
func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), "body=%s", rr.Body.String())
}

func mustErrCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	mustReadJSON(t, rr, &body)
	return body.Error.Code
}

// asUser injects the principal Auth() would have loaded.
func asUser(req *http.Request, u domain.User) *http.Request {
	ctx := middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	return req.WithContext(ctx)
}

// withURLParam injects chi URL param (e.g. /users/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}
