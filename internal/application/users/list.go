package users

import (
	"context"

	"github.com/baechuer/user-service/internal/domain"
)

// List returns one page of users in store order (ascending id).
func (s *Service) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if offset < 0 {
		return nil, domain.ErrInvalidField("skip", "must be >= 0")
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, domain.ErrInvalidField("limit", "must be between 1 and 200")
	}

	var out []domain.User
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		var err error
		out, err = store.List(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}
