package dto

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/baechuer/user-service/internal/domain"
)

// CreateUserRequest: role may be omitted but not null (see RoleIsNull).
type CreateUserRequest struct {
	Email    string         `json:"email" validate:"required,min=5,max=255"`
	FullName *string        `json:"full_name"`
	Password string         `json:"password" validate:"required,min=8,max=128"`
	Role     NullableString `json:"role"`
	IsActive *bool          `json:"is_active"`
}

// RoleIsNull reports an explicit "role": null.
func (r CreateUserRequest) RoleIsNull() bool {
	return r.Role.Set && r.Role.Value == nil
}

// ToDomain applies the create defaults: role "user" and active.
func (r CreateUserRequest) ToDomain() domain.NewUser {
	role := string(domain.DefaultRole)
	if r.Role.Value != nil {
		role = *r.Role.Value
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.NewUser{
		Email:    r.Email,
		FullName: r.FullName,
		Password: r.Password,
		Role:     role,
		IsActive: active,
	}
}

// UpdateUserRequest: a nil pointer means the key was absent or null.
// full_name distinguishes absent from null.
type UpdateUserRequest struct {
	Email    *string        `json:"email" validate:"omitnil,min=5,max=255"`
	FullName NullableString `json:"full_name"`
	Role     *string        `json:"role"`
	IsActive *bool          `json:"is_active"`
	Password *string        `json:"password" validate:"omitnil,min=8,max=128"`
}

func (r UpdateUserRequest) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		Email:       r.Email,
		SetFullName: r.FullName.Set,
		FullName:    r.FullName.Value,
		Role:        r.Role,
		IsActive:    r.IsActive,
		Password:    r.Password,
	}
}

// NullableString records whether a JSON key was present.
// Set=true with Value=nil means an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// NullableStringValue exposes the inner string to the validator (nil when unset or null).
func NullableStringValue(field reflect.Value) any {
	n, ok := field.Interface().(NullableString)
	if !ok || n.Value == nil {
		return nil
	}
	return *n.Value
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
