package domain

import (
	"errors"
	"fmt"
)

// ErrKind groups errors by the HTTP status they surface as.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 422
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 400
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is the single error type the service layers exchange. Code is
// stable and doubles as the message catalogue key; Message is the English
// fallback. Cause is for logs only and never reaches a client.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// with attaches key/value pairs to a fresh error.
func with(kind ErrKind, code, msg string, kv ...string) *Error {
	meta := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		meta[kv[i]] = kv[i+1]
	}
	return WithMeta(New(kind, code, msg), meta)
}

func Is(err error, code string) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Code returns the domain code of err, or "" when err is not a domain error.
func Code(err error) string {
	if de, ok := As(err); ok {
		return de.Code
	}
	return ""
}

// KindOf reports KindInternal for anything that is not a domain error.
func KindOf(err error) ErrKind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return KindInternal
}

func As(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

// Validation errors (422)

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return with(KindValidation, "missing_field", "missing required field", "field", field)
}

func ErrInvalidField(field, reason string) *Error {
	return with(KindValidation, "invalid_field", "invalid field", "field", field, "reason", reason)
}

// ErrValidation carries one meta entry per failing field (field -> reason).
func ErrValidation(fields map[string]string) *Error {
	return WithMeta(New(KindValidation, "validation_failed", "request validation failed"), fields)
}

// Auth errors (401)

// Same error for unknown email and wrong password.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

// Forbidden (403)

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrInsufficientRole(required string) *Error {
	return with(KindForbidden, "insufficient_role", "insufficient role", "required", required)
}

func ErrInactiveUser() *Error {
	return New(KindForbidden, "inactive_user", "inactive user")
}

// Not Found (404)

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// Conflict (400)

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already in use by another user")
}

// Rate limit (429)

func ErrRateLimited(scope string) *Error {
	return with(KindRateLimited, "rate_limited", "too many requests", "scope", scope)
}

// Infrastructure / internal (5xx)

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
