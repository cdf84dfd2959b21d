package users

import (
	"context"

	"github.com/baechuer/user-service/internal/domain"
)

// EnsureAdmin creates an active admin with the given credentials unless a user
// with that email already exists. The existing user is returned untouched.
// Used by the dev seed and by cmd/tool.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (domain.User, bool, error) {
	if email == "" {
		return domain.User{}, false, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, false, domain.ErrMissingField("password")
	}

	var out domain.User
	var created bool
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		existing, found, err := store.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if found {
			out = existing
			return nil
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return domain.ErrHashFailed(err)
		}
		out, err = store.Create(ctx, domain.User{
			Email:          email,
			HashedPassword: hash,
			Role:           string(domain.RoleAdmin),
			IsActive:       true,
		})
		created = err == nil
		return err
	})
	if err != nil {
		return domain.User{}, false, err
	}

	if created {
		s.audit("system.seed_admin", map[string]string{"email": email, "result": "success"})
		s.publish(ctx, EventUserCreated, out, 0)
	}
	return out, created, nil
}
