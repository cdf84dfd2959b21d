package users

import (
	"context"
	"time"

	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/logger"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	accessTTL time.Duration
	audit     func(action string, fields map[string]string)
	now       func() time.Time
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	pub EventPublisher,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		pub:       pub,
		accessTTL: accessTTL,
		audit:     func(string, map[string]string) {},
		now:       time.Now,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// publish emits evt once the unit of work has committed. Failures are logged only.
func (s *Service) publish(ctx context.Context, typ EventType, u domain.User, actorID int64) {
	if s.pub == nil {
		return
	}
	evt := UserEvent{
		Type:       typ,
		UserID:     u.ID,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.pub.PublishUserEvent(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("event", string(typ)).
			Int64("user_id", u.ID).
			Msg("user event publish failed")
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrInvalidField("user_id", "must be a positive integer")
	}

	var u domain.User
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		var err error
		u, err = store.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
