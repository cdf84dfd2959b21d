package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/logger"
	"github.com/baechuer/user-service/internal/transport/http/dto"
	"github.com/baechuer/user-service/internal/transport/http/middleware"
	"github.com/baechuer/user-service/internal/transport/http/response"
	"github.com/baechuer/user-service/internal/transport/http/validate"
)

type UsersHandler struct {
	svc      *users.Service
	val      *validate.Validator
	writeErr middleware.WriteErrFunc
}

func NewUsersHandler(svc *users.Service, val *validate.Validator, writeErr middleware.WriteErrFunc) *UsersHandler {
	if writeErr == nil {
		writeErr = response.WriteError
	}
	return &UsersHandler{svc: svc, val: val, writeErr: writeErr}
}

// List handles GET /api/v1/users/?skip=&limit=
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseListQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}

	list, err := h.svc.List(r.Context(), q.Skip, q.Limit)
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}

	countOp("list", nil)
	response.OK(w, dto.NewUserViews(list))
}

// Create handles POST /api/v1/users/
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "create", err)
		return
	}

	if err := h.val.Struct(r.Header.Get("Accept-Language"), req); err != nil {
		h.fail(w, r, "create", err)
		return
	}

	actor := actorID(r)
	u, err := h.svc.Create(r.Context(), actor, req.ToDomain())
	if err != nil {
		h.fail(w, r, "create", err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Int64("actor_id", actor).
		Msg("user_created")

	countOp("create", nil)
	response.Created(w, dto.NewUserView(u))
}

// Update handles PATCH /api/v1/users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := dto.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "update", err)
		return
	}

	var req dto.UpdateUserRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "update", err)
		return
	}

	if err := h.val.Struct(r.Header.Get("Accept-Language"), req); err != nil {
		h.fail(w, r, "update", err)
		return
	}

	actor := actorID(r)
	u, err := h.svc.Update(r.Context(), actor, id, req.ToPatch())
	if err != nil {
		h.fail(w, r, "update", err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Int64("actor_id", actor).
		Msg("user_updated")

	countOp("update", nil)
	response.OK(w, dto.NewUserView(u))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := dto.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "delete", err)
		return
	}

	actor := actorID(r)
	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		h.fail(w, r, "delete", err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", id).
		Int64("actor_id", actor).
		Msg("user_deleted")

	countOp("delete", nil)
	response.NoContent(w)
}

// Me handles GET /api/v1/users/me
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeErr(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetByID(r.Context(), p.UserID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

func (h *UsersHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	countOp(op, err)
	h.writeErr(w, r, err)
}

func actorID(r *http.Request) int64 {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p.UserID
}

func countOp(op string, err error) {
	result := "success"
	if err != nil {
		result = domain.Code(err)
		if result == "" {
			result = "internal_error"
		}
	}
	middleware.UserOperationsTotal.WithLabelValues(op, result).Inc()
}
