package users

import (
	"context"
	"strconv"

	"github.com/baechuer/user-service/internal/domain"
)

type AccessToken struct {
	Token     string
	TokenType string // "bearer"
	ExpiresIn int64  // seconds
}

type LoginResult struct {
	User  domain.User
	Token AccessToken
}

// Login verifies credentials and issues an access token.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	const action = "auth.login"

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	var u domain.User
	var found bool
	err := s.users.WithinTx(ctx, func(store UserStore) error {
		var err error
		u, found, err = store.FindByEmail(ctx, email)
		return err
	})
	if err != nil {
		return LoginResult{}, err
	}
	if !found {
		s.audit(action, map[string]string{"email": email, "result": "error", "error_code": "invalid_credentials"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.HashedPassword, password); err != nil {
		s.audit(action, map[string]string{"email": email, "result": "error", "error_code": "invalid_credentials"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}
	if !u.IsActive {
		s.audit(action, map[string]string{"email": email, "result": "error", "error_code": "inactive_user"})
		return LoginResult{}, domain.ErrInactiveUser()
	}

	tok, err := s.signer.SignAccessToken(strconv.FormatInt(u.ID, 10), u.Role, s.accessTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit(action, map[string]string{
		"email":   email,
		"user_id": strconv.FormatInt(u.ID, 10),
		"result":  "success",
	})

	return LoginResult{
		User: u,
		Token: AccessToken{
			Token:     tok,
			TokenType: "bearer",
			ExpiresIn: int64(s.accessTTL.Seconds()),
		},
	}, nil
}
