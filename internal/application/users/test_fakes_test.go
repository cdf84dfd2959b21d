package users

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/user-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

// fakeRepo is both UserRepo and UserStore. A failing unit of work restores
// the snapshot taken when it started.
type fakeRepo struct {
	mu sync.Mutex

	byID   map[int64]domain.User
	nextID int64

	txCalls     int
	storeCalls  int
	updateCalls int

	// injected errors (if set, method returns error)
	listErr   error
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[int64]domain.User{}, nextID: 1}
}

func (f *fakeRepo) WithinTx(ctx context.Context, fn func(store UserStore) error) error {
	f.mu.Lock()
	f.txCalls++
	snapshot := make(map[int64]domain.User, len(f.byID))
	for k, v := range f.byID {
		snapshot[k] = v
	}
	nextID := f.nextID
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.byID = snapshot
		f.nextID = nextID
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeRepo) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++

	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []domain.User{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, f.byID[ids[i]])
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++

	for _, u := range f.byID {
		if u.Email == email {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (f *fakeRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u.ID = f.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	f.nextID++
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++
	f.updateCalls++

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u = c.Apply(u)
	f.byID[id] = u
	return u, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++

	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) seed(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return u
}

type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSigner struct {
	signErr error
	lastTTL time.Duration
}

func (s *fakeSigner) SignAccessToken(userID string, role string, ttl time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	s.lastTTL = ttl
	return "access:" + userID + ":" + role, nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "access" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: parts[1], Role: parts[2]}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserEvent
	err    error
}

func (p *fakePublisher) PublishUserEvent(ctx context.Context, evt UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

type testDeps struct {
	repo   *fakeRepo
	hasher *fakeHasher
	signer *fakeSigner
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		repo:   newFakeRepo(),
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		pub:    &fakePublisher{},
		audits: &[]auditEntry{},
	}
	var mu sync.Mutex
	svc := NewService(d.repo, d.hasher, d.signer, d.pub, Config{AccessTTL: 15 * time.Minute}).
		WithAudit(func(action string, fields map[string]string) {
			mu.Lock()
			defer mu.Unlock()
			*d.audits = append(*d.audits, auditEntry{action: action, fields: fields})
		})
	return svc, d
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }
