package users

import (
	"context"
	"strings"

	"github.com/baechuer/user-service/internal/domain"
)

// Update applies a partial update. Only the fields present in p are written.
func (s *Service) Update(ctx context.Context, actorID, id int64, p domain.UserPatch) (domain.User, error) {
	const action = "admin.update_user"

	if id <= 0 {
		err := domain.ErrInvalidField("user_id", "must be a positive integer")
		s.audit(action, auditFields(actorID, 0, "error", err))
		return domain.User{}, err
	}

	var updated domain.User
	var changed []string
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		cur, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if p.Email != nil && *p.Email != cur.Email {
			if _, found, err := store.FindByEmail(ctx, *p.Email); err != nil {
				return err
			} else if found {
				return domain.ErrEmailAlreadyExists()
			}
		}

		c := domain.UserChanges{
			Email:       p.Email,
			SetFullName: p.SetFullName,
			FullName:    p.FullName,
			Role:        p.Role,
			IsActive:    p.IsActive,
		}
		if p.Password != nil {
			hash, err := s.hasher.Hash(*p.Password)
			if err != nil {
				return domain.ErrHashFailed(err)
			}
			c.HashedPassword = &hash
		}
		changed = changedFields(c)

		if c.IsEmpty() {
			updated = cur
			return nil
		}

		updated, err = store.Update(ctx, id, c)
		return err
	})
	if err != nil {
		s.audit(action, auditFields(actorID, id, "error", err))
		return domain.User{}, err
	}

	fields := auditFields(actorID, id, "success", nil)
	fields["fields"] = strings.Join(changed, ",")
	s.audit(action, fields)

	if len(changed) > 0 {
		s.publish(ctx, EventUserUpdated, updated, actorID)
	}
	return updated, nil
}

// changedFields names the supplied fields for audit purposes. Values are never logged.
func changedFields(c domain.UserChanges) []string {
	var out []string
	if c.Email != nil {
		out = append(out, "email")
	}
	if c.SetFullName {
		out = append(out, "full_name")
	}
	if c.Role != nil {
		out = append(out, "role")
	}
	if c.IsActive != nil {
		out = append(out, "is_active")
	}
	if c.HashedPassword != nil {
		out = append(out, "password")
	}
	return out
}
