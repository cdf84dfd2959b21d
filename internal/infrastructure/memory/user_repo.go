package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
)

// UserRepo is the in-process store used for local development and tests.
// Units of work are serialized and see a private copy of the data until commit.
type UserRepo struct {
	mu     sync.Mutex
	byID   map[int64]domain.User
	nextID int64
	now    func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:   make(map[int64]domain.User),
		nextID: 1,
		now:    time.Now,
	}
}

func (r *UserRepo) WithinTx(ctx context.Context, fn func(store users.UserStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &txStore{
		byID:   make(map[int64]domain.User, len(r.byID)),
		nextID: r.nextID,
		now:    r.now,
	}
	for id, u := range r.byID {
		tx.byID[id] = u
	}

	if err := fn(tx); err != nil {
		return err
	}

	r.byID = tx.byID
	r.nextID = tx.nextID
	return nil
}

// Ping lets readiness checks treat the memory store like a database.
func (r *UserRepo) Ping(ctx context.Context) error { return ctx.Err() }

type txStore struct {
	byID   map[int64]domain.User
	nextID int64
	now    func() time.Time
}

func (s *txStore) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	ids := make([]int64, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.User, 0, limit)
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, s.byID[ids[i]])
	}
	return out, nil
}

func (s *txStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (s *txStore) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *txStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	now := s.now().UTC()
	u.ID = s.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	s.nextID++
	s.byID[u.ID] = u
	return u, nil
}

func (s *txStore) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u = c.Apply(u)
	u.UpdatedAt = s.now().UTC()
	s.byID[id] = u
	return u, nil
}

func (s *txStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(s.byID, id)
	return nil
}
