package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
)

type UserRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ---------- users.UserRepo ----------

// WithinTx runs fn in one database transaction. Domain errors returned by fn
// pass through unchanged; driver failures become db_unavailable.
func (r *UserRepo) WithinTx(ctx context.Context, fn func(store users.UserStore) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx, now: r.now})
	})
	if err == nil {
		return nil
	}
	if _, ok := domain.As(err); ok {
		return err
	}
	return domain.ErrDBUnavailable(err)
}

func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ---------- users.UserStore ----------

type txStore struct {
	db  *gorm.DB
	now func() time.Time
}

func (s *txStore) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var rows []userRow
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomainUser(r))
	}
	return out, nil
}

func (s *txStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return domain.User{}, mapErr(err)
	}
	return toDomainUser(row), nil
}

func (s *txStore) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	var rows []userRow
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return domain.User{}, false, mapErr(err)
	}
	if len(rows) == 0 {
		return domain.User{}, false, nil
	}
	return toDomainUser(rows[0]), true, nil
}

func (s *txStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	now := s.now()
	row := fromDomainUser(u)
	row.ID = 0
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.User{}, mapErr(err)
	}
	return toDomainUser(row), nil
}

func (s *txStore) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	cols := changesToColumns(c, s.now())
	if len(cols) == 0 {
		return s.GetByID(ctx, id)
	}

	res := s.db.WithContext(ctx).
		Model(&userRow{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return domain.User{}, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return s.GetByID(ctx, id)
}

func (s *txStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&userRow{})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ---------- helpers ----------

const pgUniqueViolation = "23505"

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound()
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrEmailAlreadyExists()
	}
	return domain.ErrDBUnavailable(err)
}
