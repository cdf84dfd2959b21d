package http_handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/user-service/internal/transport/http/dto"
)

func TestAuth_Login(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		mustJSONBody(t, map[string]string{"email": "root@x.com", "password": "adminpass1"}))
	rr := httptest.NewRecorder()
	env.auth.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var tok dto.TokenView
	mustReadJSON(t, rr, &tok)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, int64(1800), tok.ExpiresIn)
}

func TestAuth_Login_Failures(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"wrong password", map[string]string{"email": "root@x.com", "password": "nope-nope"}, http.StatusUnauthorized, "invalid_credentials"},
		{"unknown email", map[string]string{"email": "ghost@x.com", "password": "adminpass1"}, http.StatusUnauthorized, "invalid_credentials"},
		{"missing password", map[string]string{"email": "root@x.com"}, http.StatusUnprocessableEntity, "validation_failed"},
		{"padded email", map[string]string{"email": " root@x.com", "password": "adminpass1"}, http.StatusUnauthorized, "invalid_credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", mustJSONBody(t, tc.body))
			rr := httptest.NewRecorder()
			env.auth.Login(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.code, mustErrCode(t, rr))
		})
	}
}
