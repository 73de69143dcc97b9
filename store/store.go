package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/internal/version"
)

// Store provides database access to the professor directory.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{driver: driver, profile: profile}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate brings the schema up to date. Safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.Migrate(ctx); err != nil {
		return err
	}
	return s.recordVersion(ctx)
}

// recordVersion stamps the data with the binary's version and refuses a
// downgrade: data written by a newer release may not read back
// correctly. The statement syntax is shared by both drivers, $n
// placeholders included.
func (s *Store) recordVersion(ctx context.Context) error {
	current := s.profile.Version
	if current == "" {
		return nil
	}

	db := s.driver.GetDB()
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS instance_version (version TEXT NOT NULL)"); err != nil {
		return errors.Wrap(err, "failed to ensure instance_version table")
	}

	var stored string
	err := db.QueryRowContext(ctx, "SELECT version FROM instance_version LIMIT 1").Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err := db.ExecContext(ctx, "INSERT INTO instance_version (version) VALUES ($1)", current)
		return errors.Wrap(err, "failed to record instance version")
	case err != nil:
		return errors.Wrap(err, "failed to read instance version")
	}

	if !version.IsVersionGreaterOrEqualThan(current, stored) {
		return errors.Errorf("data directory was written by version %s, refusing to run version %s", stored, current)
	}
	if stored != current {
		if _, err := db.ExecContext(ctx, "UPDATE instance_version SET version = $1", current); err != nil {
			return errors.Wrap(err, "failed to update instance version")
		}
	}
	return nil
}

func (s *Store) CreateProfessor(ctx context.Context, create *Professor) (*Professor, error) {
	if create.Name == "" {
		return nil, errors.New("professor name required")
	}
	return s.driver.CreateProfessor(ctx, create)
}

func (s *Store) ListProfessors(ctx context.Context, find *FindProfessor) ([]*Professor, error) {
	return s.driver.ListProfessors(ctx, find)
}

// GetProfessor returns the professor with the given ID, or nil when it
// does not exist.
func (s *Store) GetProfessor(ctx context.Context, id int32) (*Professor, error) {
	list, err := s.driver.ListProfessors(ctx, &FindProfessor{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// FindProfessorByName returns directory entries whose name contains name,
// the lookup path behind deep-dive and comparison turns.
func (s *Store) FindProfessorByName(ctx context.Context, name string, limit int) ([]*Professor, error) {
	return s.driver.ListProfessors(ctx, &FindProfessor{Name: &name, Limit: &limit})
}

func (s *Store) ListAchievements(ctx context.Context, find *FindAchievement) ([]*ProfessorAchievement, error) {
	return s.driver.ListAchievements(ctx, find)
}
