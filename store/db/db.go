// Package db provides the database driver dispatch.
package db

import (
	"github.com/pkg/errors"

	"github.com/defterly/defterly/internal/profile"
	"github.com/defterly/defterly/store"
	"github.com/defterly/defterly/store/db/postgres"
	"github.com/defterly/defterly/store/db/sqlite"
)

// NewDBDriver creates a database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "postgres":
		return postgres.NewDB(profile)
	case "sqlite":
		return sqlite.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
}
