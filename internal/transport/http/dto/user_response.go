package dto

import (
	"time"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
)

// UserView is the public user representation. It never carries the password hash.
type UserView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func NewUserViews(list []domain.User) []UserView {
	out := make([]UserView, 0, len(list))
	for _, u := range list {
		out = append(out, NewUserView(u))
	}
	return out
}

type TokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func NewTokenView(t users.AccessToken) TokenView {
	return TokenView{
		AccessToken: t.Token,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}
