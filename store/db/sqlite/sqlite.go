package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/defterly/defterly/internal/profile"
	"github.com/defterly/defterly/store"
)

// SQLite is supported for development and single-user deployments. It runs
// with WAL journal mode and a single connection, which is the sane setup for
// a local file database.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// With the modernc.org/sqlite driver each pragma must be prefixed with
	// `_pragma=`. WAL avoids writer lock contention; busy_timeout keeps the
	// single writer from failing fast under overlap.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	return &DB{db: sqliteDB, profile: profile}, nil
}

func (db *DB) GetDB() *sql.DB {
	return db.db
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Migrate creates the note table.
func (db *DB) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS note (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uid TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
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
