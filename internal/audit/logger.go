package audit

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/user-service/internal/pkg/context"
)

// Logger writes structured audit records for admin actions and auth decisions.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record is the sink for the application service audit hook.
// Email values are masked. Failed actions are logged at warn level.
func (l *Logger) Record(action string, fields map[string]string) {
	ev := l.log.Info()
	if fields["result"] == "error" {
		ev = l.log.Warn()
	}
	ev = ev.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

// AccessDenied logs an authenticated request rejected by the auth gate.
func (l *Logger) AccessDenied(ctx context.Context, userID, path, reason string) {
	l.log.Warn().
		Str("action", "access_denied").
		Str("user_id", userID).
		Str("path", path).
		Str("reason", reason).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Access denied")
}

// RateLimited logs a request rejected by a rate limiter.
func (l *Logger) RateLimited(ctx context.Context, scope, identity string) {
	l.log.Warn().
		Str("action", "rate_limited").
		Str("scope", scope).
		Str("identity", identity).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Rate limit exceeded")
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 || len(email) < 5 {
		return "***"
	}
	if at < 2 {
		return email[:at] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
