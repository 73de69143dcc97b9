package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

type seedProfessor struct {
	Name          string        `json:"name"`
	Department    string        `json:"department"`
	Title         string        `json:"title"`
	Introduction  string        `json:"introduction"`
	ResearchAreas []string      `json:"researchAreas"`
	Achievements  []Achievement `json:"achievements"`
	Projects      []Project     `json:"projects"`
}

// SeedProfessors loads a JSON array of professors from path into an
// empty directory. A non-empty directory is left untouched, so seeding
// on every start is safe.
func (s *Store) SeedProfessors(ctx context.Context, path string) (int, error) {
	one := 1
	existing, err := s.ListProfessors(ctx, &FindProfessor{Limit: &one})
	if err != nil {
		return 0, errors.Wrap(err, "check directory")
	}
	if len(existing) > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "read seed file %s", path)
	}
	var seeds []seedProfessor
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, errors.Wrap(err, "decode seed file")
	}

	for i, seed := range seeds {
		_, err := s.CreateProfessor(ctx, &Professor{
			Name:          seed.Name,
			Department:    seed.Department,
			Title:         seed.Title,
			Introduction:  seed.Introduction,
			ResearchAreas: seed.ResearchAreas,
			Achievements:  seed.Achievements,
			Projects:      seed.Projects,
		})
		if err != nil {
			return i, errors.Wrapf(err, "seed professor %q", seed.Name)
		}
	}
	return len(seeds), nil
}
