package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
)

func create(t *testing.T, r *UserRepo, email string) domain.User {
	t.Helper()
	var out domain.User
	err := r.WithinTx(context.Background(), func(s users.UserStore) error {
		var err error
		out, err = s.Create(context.Background(), domain.User{Email: email, Role: "user", IsActive: true})
		return err
	})
	require.NoError(t, err)
	return out
}

func TestUserRepo_CreateAssignsAscendingIDs(t *testing.T) {
	r := NewUserRepo()

	a := create(t, r, "a@x.io")
	b := create(t, r, "b@x.io")

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestUserRepo_FailedTx_RollsBack(t *testing.T) {
	r := NewUserRepo()
	boom := errors.New("boom")

	err := r.WithinTx(context.Background(), func(s users.UserStore) error {
		if _, err := s.Create(context.Background(), domain.User{Email: "a@x.io"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_ = r.WithinTx(context.Background(), func(s users.UserStore) error {
		_, found, err := s.FindByEmail(context.Background(), "a@x.io")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})

	// id sequence is not consumed by the rolled back insert
	assert.Equal(t, int64(1), create(t, r, "b@x.io").ID)
}

func TestUserRepo_ListWindowInIDOrder(t *testing.T) {
	r := NewUserRepo()
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"} {
		create(t, r, e)
	}

	_ = r.WithinTx(context.Background(), func(s users.UserStore) error {
		page, err := s.List(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "b@x.io", page[0].Email)
		assert.Equal(t, "c@x.io", page[1].Email)

		empty, err := s.List(context.Background(), 10, 2)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
		return nil
	})
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	r := NewUserRepo()
	a := create(t, r, "a@x.io")
	name := "Ann"

	err := r.WithinTx(context.Background(), func(s users.UserStore) error {
		u, err := s.Update(context.Background(), a.ID, domain.UserChanges{SetFullName: true, FullName: &name})
		require.NoError(t, err)
		require.NotNil(t, u.FullName)
		assert.Equal(t, "Ann", *u.FullName)
		assert.Equal(t, "a@x.io", u.Email)

		require.NoError(t, s.Delete(context.Background(), a.ID))
		_, err = s.GetByID(context.Background(), a.ID)
		assert.True(t, domain.Is(err, "user_not_found"))
		return nil
	})
	require.NoError(t, err)

	err = r.WithinTx(context.Background(), func(s users.UserStore) error {
		return s.Delete(context.Background(), a.ID)
	})
	assert.True(t, domain.Is(err, "user_not_found"))
}

func TestUserRepo_FindByEmail_CaseSensitive(t *testing.T) {
	r := NewUserRepo()
	create(t, r, "a@x.io")

	_ = r.WithinTx(context.Background(), func(s users.UserStore) error {
		_, found, _ := s.FindByEmail(context.Background(), "A@x.io")
		assert.False(t, found)
		u, found, _ := s.FindByEmail(context.Background(), "a@x.io")
		assert.True(t, found)
		assert.Equal(t, int64(1), u.ID)
		return nil
	})
}

func TestUserRepo_CanceledContext(t *testing.T) {
	r := NewUserRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := r.WithinTx(ctx, func(users.UserStore) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
