package postgres

import (
	"time"

	"github.com/baechuer/user-service/internal/domain"
)

// userRow is the GORM model for the users table.
// email carries a plain index only: uniqueness is enforced by the application.
type userRow struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email          string    `gorm:"column:email;type:varchar(255);not null;index:ix_users_email"`
	FullName       *string   `gorm:"column:full_name;type:text"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null"`
	Role           string    `gorm:"column:role;type:text;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (userRow) TableName() string { return "users" }

func toDomainUser(r userRow) domain.User {
	return domain.User{
		ID:             r.ID,
		Email:          r.Email,
		FullName:       r.FullName,
		HashedPassword: r.HashedPassword,
		Role:           r.Role,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func fromDomainUser(u domain.User) userRow {
	return userRow{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		HashedPassword: u.HashedPassword,
		Role:           u.Role,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// changesToColumns maps only the supplied fields to columns.
func changesToColumns(c domain.UserChanges, now time.Time) map[string]any {
	cols := map[string]any{}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.SetFullName {
		if c.FullName == nil {
			cols["full_name"] = nil
		} else {
			cols["full_name"] = *c.FullName
		}
	}
	if c.Role != nil {
		cols["role"] = *c.Role
	}
	if c.IsActive != nil {
		cols["is_active"] = *c.IsActive
	}
	if c.HashedPassword != nil {
		cols["hashed_password"] = *c.HashedPassword
	}
	if len(cols) > 0 {
		cols["updated_at"] = now
	}
	return cols
}
