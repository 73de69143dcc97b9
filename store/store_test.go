package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/store"
	"github.com/scimatch/scimatch/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "scimatch_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedProfessor(t *testing.T, s *store.Store, name string, areas []string, achievements []store.Achievement) *store.Professor {
	t.Helper()
	created, err := s.CreateProfessor(context.Background(), &store.Professor{
		Name:          name,
		Department:    "计算机学院",
		Title:         "教授",
		ResearchAreas: areas,
		Achievements:  achievements,
		Projects:      []store.Project{{Name: name + "的在研项目"}},
	})
	require.NoError(t, err)
	return created
}

func TestCreateAndGetProfessor(t *testing.T) {
	s := newTestStore(t)
	created := seedProfessor(t, s, "张伟", []string{"人工智能", "计算机视觉"}, []store.Achievement{
		{Title: "图像识别算法研究", Year: 2023},
	})
	require.NotZero(t, created.ID)

	got, err := s.GetProfessor(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "张伟", got.Name)
	require.Equal(t, []string{"人工智能", "计算机视觉"}, got.ResearchAreas)
	require.Len(t, got.Achievements, 1)
	require.Len(t, got.Projects, 1)
}

func TestGetProfessorMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetProfessor(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindProfessorByName(t *testing.T) {
	s := newTestStore(t)
	seedProfessor(t, s, "李明", []string{"材料科学"}, nil)
	seedProfessor(t, s, "王芳", []string{"生物医学"}, nil)

	list, err := s.FindProfessorByName(context.Background(), "李明", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "李明", list[0].Name)
}

func TestListAchievementsByKeyword(t *testing.T) {
	s := newTestStore(t)
	seedProfessor(t, s, "李明", []string{"材料科学"}, []store.Achievement{
		{Title: "纳米材料制备", Description: "新型纳米材料"},
		{Title: "电池技术专利", Description: "固态电池"},
	})
	seedProfessor(t, s, "王芳", []string{"生物医学"}, []store.Achievement{
		{Title: "基因编辑研究"},
	})

	keyword := "电池"
	list, err := s.ListAchievements(context.Background(), &store.FindAchievement{Keyword: &keyword})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "李明", list[0].ProfessorName)
	require.Equal(t, "电池技术专利", list[0].Title)
}

func TestSeedProfessorsOnlyIntoEmptyDirectory(t *testing.T) {
	s := newTestStore(t)
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	seedJSON := `[
		{"name": "张伟", "department": "计算机学院", "title": "教授", "researchAreas": ["人工智能"]},
		{"name": "李明", "department": "材料学院", "title": "副教授", "researchAreas": ["材料科学"]}
	]`
	require.NoError(t, os.WriteFile(seedPath, []byte(seedJSON), 0o600))

	n, err := s.SeedProfessors(context.Background(), seedPath)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Second run is a no-op.
	n, err = s.SeedProfessors(context.Background(), seedPath)
	require.NoError(t, err)
	require.Zero(t, n)

	list, err := s.ListProfessors(context.Background(), &store.FindProfessor{})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestCreateProfessorRequiresName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProfessor(context.Background(), &store.Professor{})
	require.Error(t, err)
}

func TestMigrateRefusesDowngrade(t *testing.T) {
	p := &profile.Profile{
		Mode:    "dev",
		Driver:  "sqlite",
		DSN:     filepath.Join(t.TempDir(), "versioned.db"),
		Version: "0.2.0",
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	// Re-running the same version is a no-op.
	require.NoError(t, s.Migrate(context.Background()))

	newer := *p
	newer.Version = "0.3.0"
	require.NoError(t, store.New(driver, &newer).Migrate(context.Background()))

	// An older binary may not run against data stamped by a newer one.
	older := *p
	older.Version = "0.1.0"
	err = store.New(driver, &older).Migrate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "0.3.0")
}
