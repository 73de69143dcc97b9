// Package db selects the concrete database driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/store"
	"github.com/scimatch/scimatch/store/db/postgres"
	"github.com/scimatch/scimatch/store/db/sqlite"
)

// NewDBDriver creates a new DB driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
}
