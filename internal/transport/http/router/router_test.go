package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/user-service/internal/transport/http/response"
)

// ---------- fakes ----------

func write(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) { write(w, "healthz") }
func (fakeHealth) Readyz(w http.ResponseWriter, r *http.Request)  { write(w, "readyz") }

type fakeUsers struct{}

func (fakeUsers) List(w http.ResponseWriter, r *http.Request)   { write(w, "list") }
func (fakeUsers) Create(w http.ResponseWriter, r *http.Request) { write(w, "create") }
func (fakeUsers) Update(w http.ResponseWriter, r *http.Request) {
	write(w, "update:"+chi.URLParam(r, "id"))
}
func (fakeUsers) Delete(w http.ResponseWriter, r *http.Request) {
	write(w, "delete:"+chi.URLParam(r, "id"))
}
func (fakeUsers) Me(w http.ResponseWriter, r *http.Request)     { write(w, "me") }

type fakeAuth struct{}

func (fakeAuth) Login(w http.ResponseWriter, r *http.Request) { write(w, "login") }

// gateMW rejects requests lacking the given header.
func gateMW(header string, status int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(header) == "" {
				w.WriteHeader(status)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func headerMW(key, val string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, val)
			next.ServeHTTP(w, r)
		})
	}
}

func baseDeps() Deps {
	return Deps{
		Health:   fakeHealth{},
		Users:    fakeUsers{},
		Auth:     fakeAuth{},
		AuthMW:   gateMW("X-Test-Auth", http.StatusUnauthorized),
		AdminMW:  gateMW("X-Test-Admin", http.StatusForbidden),
		WriteErr: response.WriteError,
	}
}

func do(t *testing.T, h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ---------- tests ----------

func TestNew_MissingDeps(t *testing.T) {
	d := baseDeps()
	d.Users = nil
	_, err := New(d)
	assert.Error(t, err)

	d = baseDeps()
	d.AdminMW = nil
	_, err = New(d)
	assert.Error(t, err)
}

func TestRouter_Routes(t *testing.T) {
	h, err := New(baseDeps())
	require.NoError(t, err)

	admin := map[string]string{"X-Test-Auth": "1", "X-Test-Admin": "1"}
	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/healthz", "healthz"},
		{http.MethodGet, "/readyz", "readyz"},
		{http.MethodPost, "/api/v1/auth/login", "login"},
		{http.MethodGet, "/api/v1/users/", "list"},
		{http.MethodGet, "/api/v1/users", "list"},
		{http.MethodPost, "/api/v1/users/", "create"},
		{http.MethodPost, "/api/v1/users", "create"},
		{http.MethodPatch, "/api/v1/users/7", "update:7"},
		{http.MethodPatch, "/api/v1/users/7/", "update:7"},
		{http.MethodDelete, "/api/v1/users/7", "delete:7"},
		{http.MethodDelete, "/api/v1/users/7/", "delete:7"},
		{http.MethodGet, "/api/v1/users/me", "me"},
		{http.MethodGet, "/api/v1/users/me/", "me"},
		{http.MethodGet, "/healthz/", "healthz"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := do(t, h, tc.method, tc.path, admin)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
		})
	}
}

func TestRouter_Gates(t *testing.T) {
	h, err := New(baseDeps())
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/users/", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/users/me", nil).Code)

	authed := map[string]string{"X-Test-Auth": "1"}
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/users/me", authed).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/v1/users/", authed).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodDelete, "/api/v1/users/3", authed).Code)

	// login is public
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/auth/login", nil).Code)
}

func TestRouter_WriteLimitOnlyOnWrites(t *testing.T) {
	d := baseDeps()
	d.WriteLimitMW = headerMW("X-Write-Limited", "1")
	h, err := New(d)
	require.NoError(t, err)

	admin := map[string]string{"X-Test-Auth": "1", "X-Test-Admin": "1"}
	assert.Equal(t, "1", do(t, h, http.MethodPost, "/api/v1/users/", admin).Header().Get("X-Write-Limited"))
	assert.Equal(t, "1", do(t, h, http.MethodPatch, "/api/v1/users/1", admin).Header().Get("X-Write-Limited"))
	assert.Empty(t, do(t, h, http.MethodGet, "/api/v1/users/", admin).Header().Get("X-Write-Limited"))
}

func TestRouter_IPRateLimit(t *testing.T) {
	d := baseDeps()
	d.IPRateLimit = IPRateLimit{Limit: 2, Window: time.Minute}
	h, err := New(d)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/auth/login", nil).Code)
	}
	rr := do(t, h, http.MethodPost, "/api/v1/auth/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rate_limited"`)

	// health endpoints are not limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	d := baseDeps()
	d.CORSAllowedOrigins = []string{"http://localhost:5173"}
	h, err := New(d)
	require.NoError(t, err)

	rr := do(t, h, http.MethodOptions, "/api/v1/users/", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "PATCH",
	})
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	h, err := New(baseDeps())
	require.NoError(t, err)

	do(t, h, http.MethodGet, "/healthz", nil)
	rr := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "user_service_http_requests_total")
}
