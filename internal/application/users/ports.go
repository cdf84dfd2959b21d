package users

import (
	"context"
	"time"

	"github.com/baechuer/user-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
WithinTx opens one unit of work, hands fn a store bound to it, commits when fn
returns nil and rolls back otherwise (including panics).
*/
type UserRepo interface {
	WithinTx(ctx context.Context, fn func(store UserStore) error) error
}

/*
UserStore
---------
Operations available inside a unit of work.
GetByID, Update and Delete return domain.ErrUserNotFound for unknown ids.
FindByEmail is an exact, case-sensitive match.
*/
type UserStore interface {
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by the login flow + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes user lifecycle events after a unit of work commits.
Delivery is best-effort: a failed publish never fails the request.
*/
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, evt UserEvent) error
}

type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
)

type UserEvent struct {
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
