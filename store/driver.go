package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for the database drivers the directory can run
// on.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error

	CreateProfessor(ctx context.Context, create *Professor) (*Professor, error)
	ListProfessors(ctx context.Context, find *FindProfessor) ([]*Professor, error)
	ListAchievements(ctx context.Context, find *FindAchievement) ([]*ProfessorAchievement, error)
}
