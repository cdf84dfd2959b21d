package domain

import "time"

// User is the single persisted entity.
// HashedPassword never leaves the service boundary.
type User struct {
	ID             int64
	Email          string
	FullName       *string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser carries the fields supplied on create. Password is plaintext and is
// hashed by the application layer before it reaches the store.
type NewUser struct {
	Email    string
	FullName *string
	Password string
	Role     string
	IsActive bool
}

// UserPatch is a partial update. A nil pointer means "not supplied".
// FullName is tri-state: SetFullName=false leaves it alone, SetFullName=true
// with FullName=nil clears it.
type UserPatch struct {
	Email       *string
	SetFullName bool
	FullName    *string
	Role        *string
	IsActive    *bool
	Password    *string
}

// IsEmpty reports whether the patch supplies no field at all.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && !p.SetFullName && p.Role == nil && p.IsActive == nil && p.Password == nil
}

// UserChanges is the store-level form of a patch: the password is already hashed.
type UserChanges struct {
	Email          *string
	SetFullName    bool
	FullName       *string
	Role           *string
	IsActive       *bool
	HashedPassword *string
}

func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && !c.SetFullName && c.Role == nil && c.IsActive == nil && c.HashedPassword == nil
}

// Apply returns a copy of u with the supplied changes applied.
func (c UserChanges) Apply(u User) User {
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.SetFullName {
		u.FullName = c.FullName
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	if c.HashedPassword != nil {
		u.HashedPassword = *c.HashedPassword
	}
	return u
}
