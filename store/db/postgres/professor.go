package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/scimatch/scimatch/store"
)

func (d *DB) CreateProfessor(ctx context.Context, create *store.Professor) (*store.Professor, error) {
	areas, err := json.Marshal(create.ResearchAreas)
	if err != nil {
		return nil, errors.Wrap(err, "marshal research areas")
	}
	achievements, err := json.Marshal(create.Achievements)
	if err != nil {
		return nil, errors.Wrap(err, "marshal achievements")
	}
	projects, err := json.Marshal(create.Projects)
	if err != nil {
		return nil, errors.Wrap(err, "marshal projects")
	}

	now := time.Now().Unix()
	stmt := `
		INSERT INTO professor (name, department, title, introduction, research_areas, achievements, projects, created_ts, updated_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.Department, create.Title, create.Introduction,
		string(areas), string(achievements), string(projects), now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "insert professor")
	}
	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

func (d *DB) ListProfessors(ctx context.Context, find *store.FindProfessor) ([]*store.Professor, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, fmt.Sprintf("id = $%d", len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, fmt.Sprintf("name LIKE $%d", len(args)+1)), append(args, "%"+*v+"%")
	}

	query := `
		SELECT id, name, department, title, introduction, research_areas, achievements, projects, created_ts, updated_ts
		FROM professor
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list professors")
	}
	defer rows.Close()

	var list []*store.Professor
	for rows.Next() {
		professor, err := scanProfessor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, professor)
	}
	return list, rows.Err()
}

func scanProfessor(rows *sql.Rows) (*store.Professor, error) {
	var professor store.Professor
	var areas, achievements, projects []byte
	if err := rows.Scan(
		&professor.ID, &professor.Name, &professor.Department, &professor.Title,
		&professor.Introduction, &areas, &achievements, &projects,
		&professor.CreatedTs, &professor.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "scan professor")
	}
	if err := json.Unmarshal(areas, &professor.ResearchAreas); err != nil {
		return nil, errors.Wrap(err, "unmarshal research areas")
	}
	if err := json.Unmarshal(achievements, &professor.Achievements); err != nil {
		return nil, errors.Wrap(err, "unmarshal achievements")
	}
	if err := json.Unmarshal(projects, &professor.Projects); err != nil {
		return nil, errors.Wrap(err, "unmarshal projects")
	}
	return &professor, nil
}

// ListAchievements flattens the JSONB achievement columns in Go, matching
// the sqlite driver's behavior.
func (d *DB) ListAchievements(ctx context.Context, find *store.FindAchievement) ([]*store.ProfessorAchievement, error) {
	professors, err := d.ListProfessors(ctx, &store.FindProfessor{ID: find.ProfessorID})
	if err != nil {
		return nil, err
	}

	var list []*store.ProfessorAchievement
	for _, professor := range professors {
		for _, achievement := range professor.Achievements {
			if !matchAchievement(&achievement, find) {
				continue
			}
			list = append(list, &store.ProfessorAchievement{
				ProfessorID:   professor.ID,
				ProfessorName: professor.Name,
				Achievement:   achievement,
			})
			if find.Limit != nil && len(list) >= *find.Limit {
				return list, nil
			}
		}
	}
	return list, nil
}

func matchAchievement(achievement *store.Achievement, find *store.FindAchievement) bool {
	if find.Keyword == nil {
		return true
	}
	keyword := strings.ToLower(*find.Keyword)
	return strings.Contains(strings.ToLower(achievement.Title), keyword) ||
		strings.Contains(strings.ToLower(achievement.Description), keyword)
}
