package users

import (
	"context"

	"github.com/baechuer/user-service/internal/domain"
)

// Delete hard-deletes a user. There is no tombstone.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	const action = "admin.delete_user"

	if id <= 0 {
		err := domain.ErrInvalidField("user_id", "must be a positive integer")
		s.audit(action, auditFields(actorID, 0, "error", err))
		return err
	}

	var gone domain.User
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		u, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		gone = u
		return store.Delete(ctx, id)
	})
	if err != nil {
		s.audit(action, auditFields(actorID, id, "error", err))
		return err
	}

	s.audit(action, auditFields(actorID, id, "success", nil))
	s.publish(ctx, EventUserDeleted, gone, actorID)
	return nil
}
