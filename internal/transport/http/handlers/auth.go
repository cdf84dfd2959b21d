package http_handlers

import (
	"net/http"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/logger"
	"github.com/baechuer/user-service/internal/transport/http/dto"
	"github.com/baechuer/user-service/internal/transport/http/middleware"
	"github.com/baechuer/user-service/internal/transport/http/response"
	"github.com/baechuer/user-service/internal/transport/http/validate"
)

type AuthHandler struct {
	svc      *users.Service
	val      *validate.Validator
	writeErr middleware.WriteErrFunc
}

func NewAuthHandler(svc *users.Service, val *validate.Validator, writeErr middleware.WriteErrFunc) *AuthHandler {
	if writeErr == nil {
		writeErr = response.WriteError
	}
	return &AuthHandler{svc: svc, val: val, writeErr: writeErr}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		countOp("login", err)
		h.writeErr(w, r, err)
		return
	}

	if err := h.val.Struct(r.Header.Get("Accept-Language"), req); err != nil {
		countOp("login", err)
		h.writeErr(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		countOp("login", err)
		h.writeErr(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("user_logged_in")

	countOp("login", nil)
	response.OK(w, dto.NewTokenView(res.Token))
}
