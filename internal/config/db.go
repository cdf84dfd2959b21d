package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/user-service/internal/logger"
)

// Pool sizing for a request-per-transaction workload: every request holds at
// most one connection for the life of its unit of work.
const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxIdleTime = 5 * time.Minute
	dbConnMaxLifetime = time.Hour
	dbConnectTimeout  = 3 * time.Second
)

// NewDB opens the shared pgx-backed pool and fails fast when the server is unreachable.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if debug {
		var who, name, version string
		err := db.QueryRowContext(ctx,
			"SELECT current_user, current_database(), current_setting('server_version')",
		).Scan(&who, &name, &version)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("db identity query failed")
		} else {
			logger.Logger.Info().
				Str("db_user", who).
				Str("db_name", name).
				Str("db_version", version).
				Msg("db connected")
		}
	}

	return db, nil
}
