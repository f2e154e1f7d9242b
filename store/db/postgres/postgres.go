package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/defterly/defterly/internal/profile"
	"github.com/defterly/defterly/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a connection pool to the PostgreSQL instance described by the
// profile DSN and verifies it with a ping.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	pgDB.SetMaxOpenConns(25)
	pgDB.SetMaxIdleConns(5)
	pgDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pgDB.PingContext(ctx); err != nil {
		_ = pgDB.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: pgDB, profile: profile}, nil
}

func (db *DB) GetDB() *sql.DB {
	return db.db
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Migrate creates the note table. Kept as a single idempotent statement; a
// real migration tool takes over once the schema grows.
func (db *DB) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS note (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)
	`
	if _, err := db.db.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, "failed to create note table")
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
