package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"
)

// DB wraps a sqlx pool with a semaphore bounding concurrent queries.
type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// Open connects to the configured database. Driver is "postgres" (lib/pq)
// or "pgx" (pgx stdlib).
func Open(cfg config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return Wrap(db, int64(maxConns)), nil
}

// Wrap adopts an existing sqlx pool.
func Wrap(db *sqlx.DB, maxConcurrent int64) *DB {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

// withPermit runs fn once a query slot is available.
func (db *DB) withPermit(ctx context.Context, fn func() error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire query slot: %w", err)
	}
	defer db.sem.Release(1)

	return fn()
}
