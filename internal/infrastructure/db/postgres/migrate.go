package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the users table. It never adds a unique
// constraint on email.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}
