package response

import (
	"encoding/json"
	"net/http"

	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/logger"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Localizer turns a domain error code into a client message for the request language.
type Localizer interface {
	Localize(acceptLanguage, code, fallback string) string
}

// ErrorWriter writes domain errors as JSON with localized messages.
type ErrorWriter struct {
	loc Localizer
}

func NewErrorWriter(loc Localizer) *ErrorWriter {
	return &ErrorWriter{loc: loc}
}

// Write converts err into a JSON HTTP error response.
// Non-domain errors are treated as internal errors (500) without leaking details.
func (ew *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"
	var meta map[string]string

	if de, ok := domain.As(err); ok {
		status = statusFromKind(de.Kind)
		code = de.Code
		message = de.Message
		meta = de.Meta
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", code).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	if ew != nil && ew.loc != nil {
		message = ew.loc.Localize(r.Header.Get("Accept-Language"), code, message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error: ErrorPayload{
			Code:      code,
			Message:   message,
			Meta:      meta,
			RequestID: RequestIDFromContext(r),
		},
	})
}

// WriteError writes err without localization.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	(*ErrorWriter)(nil).Write(w, r, err)
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		// duplicate email is a plain 400 for API compatibility
		return http.StatusBadRequest
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
