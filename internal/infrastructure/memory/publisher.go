package memory

import (
	"context"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/logger"
)

// NoopPublisher logs user events instead of sending them. Used when RABBIT_URL is unset.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserEvent(ctx context.Context, evt users.UserEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("event", string(evt.Type)).
		Int64("user_id", evt.UserID).
		Msg("user event (noop publisher)")
	return nil
}
