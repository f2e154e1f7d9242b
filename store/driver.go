package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database access to notes.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error)
	DeleteNote(ctx context.Context, delete *DeleteNote) error
}
