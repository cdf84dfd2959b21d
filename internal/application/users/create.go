package users

import (
	"context"

	"github.com/baechuer/user-service/internal/domain"
)

// Create inserts a new user after checking that no user already owns the email.
// The check and the insert share one unit of work but are not atomic against
// concurrent creates unless the table carries a unique index on email.
func (s *Service) Create(ctx context.Context, actorID int64, in domain.NewUser) (domain.User, error) {
	const action = "admin.create_user"

	if in.Email == "" {
		err := domain.ErrMissingField("email")
		s.audit(action, auditFields(actorID, 0, "error", err))
		return domain.User{}, err
	}
	if in.Password == "" {
		err := domain.ErrMissingField("password")
		s.audit(action, auditFields(actorID, 0, "error", err))
		return domain.User{}, err
	}

	var created domain.User
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		if _, found, err := store.FindByEmail(ctx, in.Email); err != nil {
			return err
		} else if found {
			return domain.ErrEmailAlreadyExists()
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return domain.ErrHashFailed(err)
		}

		created, err = store.Create(ctx, domain.User{
			Email:          in.Email,
			FullName:       in.FullName,
			HashedPassword: hash,
			Role:           in.Role,
			IsActive:       in.IsActive,
		})
		return err
	})
	if err != nil {
		s.audit(action, auditFields(actorID, 0, "error", err))
		return domain.User{}, err
	}

	fields := auditFields(actorID, created.ID, "success", nil)
	fields["email"] = created.Email
	fields["role"] = created.Role
	s.audit(action, fields)

	s.publish(ctx, EventUserCreated, created, actorID)
	return created, nil
}
