package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	pkgerrors "github.com/trail-recommender/internal/pkg/errors"
)

// stubTrailRepo is an in-memory TrailRepository for tests.
type stubTrailRepo struct {
	trails  []domain.Trail
	loadErr error
	saved   []domain.Trail
}

func (s *stubTrailRepo) LoadAll(ctx context.Context) ([]domain.Trail, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.trails, nil
}

func (s *stubTrailRepo) SaveAll(ctx context.Context, trails []domain.Trail) error {
	s.saved = trails
	return nil
}

func testTrails() []domain.Trail {
	return []domain.Trail{
		{ID: "t1", Name: "Lakeside Loop", Region: "mazury", LengthKm: 6, ElevationGain: 50, Difficulty: 1, TerrainType: "lakeside", Tags: []string{"lake"}},
		{ID: "t2", Name: "Forest Walk", Region: "beskidy", LengthKm: 12, ElevationGain: 400, Difficulty: 2, TerrainType: "forest"},
		{ID: "t3", Name: "Ridge Traverse", Region: "tatry", LengthKm: 18, ElevationGain: 900, Difficulty: 4, TerrainType: "mountain", Tags: []string{"panorama"}},
		{ID: "t4", Name: "Summit Push", Region: "tatry", LengthKm: 26, ElevationGain: 1400, Difficulty: 5, TerrainType: "rocky"},
	}
}

func newTestCatalog(t *testing.T, trails []domain.Trail) *CatalogUseCase {
	t.Helper()
	uc := NewCatalogUseCase(&stubTrailRepo{trails: trails}, zap.NewNop())
	require.NoError(t, uc.Load(context.Background()))
	return uc
}

func TestCatalogLoad_KeepsOldCatalogOnError(t *testing.T) {
	repo := &stubTrailRepo{trails: testTrails()}
	uc := NewCatalogUseCase(repo, zap.NewNop())
	require.NoError(t, uc.Load(context.Background()))
	require.Equal(t, 4, uc.Count())

	repo.loadErr = assert.AnError
	err := uc.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 4, uc.Count())
}

func TestCatalogFindByID(t *testing.T) {
	uc := newTestCatalog(t, testTrails())

	trail, err := uc.FindByID("t3")
	require.NoError(t, err)
	assert.Equal(t, "Ridge Traverse", trail.Name)

	_, err = uc.FindByID("missing")
	assert.ErrorIs(t, err, pkgerrors.ErrTrailNotFound)
}

func TestFilterByLength(t *testing.T) {
	filtered := FilterByLength(testTrails(), 10, 20)

	require.Len(t, filtered, 2)
	assert.Equal(t, "t2", filtered[0].ID)
	assert.Equal(t, "t3", filtered[1].ID)
}

func TestFilterByParams(t *testing.T) {
	trails := testTrails()
	region := domain.RegionID("tatry")
	minDifficulty, maxDifficulty := 3, 5
	exact := 2
	maxLength := 20.0

	t.Run("difficulty range and region", func(t *testing.T) {
		filtered := FilterByParams(trails, domain.TrailFilter{
			MinDifficulty: &minDifficulty,
			MaxDifficulty: &maxDifficulty,
			Region:        &region,
		})
		require.Len(t, filtered, 2)
		assert.Equal(t, "t3", filtered[0].ID)
	})

	t.Run("legacy exact difficulty", func(t *testing.T) {
		filtered := FilterByParams(trails, domain.TrailFilter{Difficulty: &exact})
		require.Len(t, filtered, 1)
		assert.Equal(t, "t2", filtered[0].ID)
	})

	t.Run("range wins over exact", func(t *testing.T) {
		filtered := FilterByParams(trails, domain.TrailFilter{
			MinDifficulty: &minDifficulty,
			MaxDifficulty: &maxDifficulty,
			Difficulty:    &exact,
		})
		require.Len(t, filtered, 2)
	})

	t.Run("categories OR-match", func(t *testing.T) {
		filtered := FilterByParams(trails, domain.TrailFilter{
			Categories: []domain.Category{domain.CategoryFamily, domain.CategoryExtreme},
		})
		require.Len(t, filtered, 2)
		assert.Equal(t, "t1", filtered[0].ID)
		assert.Equal(t, "t4", filtered[1].ID)
	})

	t.Run("cumulative", func(t *testing.T) {
		filtered := FilterByParams(trails, domain.TrailFilter{
			MaxLength: &maxLength,
			Region:    &region,
		})
		require.Len(t, filtered, 1)
		assert.Equal(t, "t3", filtered[0].ID)
	})

	t.Run("no filters keeps everything", func(t *testing.T) {
		assert.Len(t, FilterByParams(trails, domain.TrailFilter{}), 4)
	})
}

func TestCatalogProjections(t *testing.T) {
	uc := newTestCatalog(t, testTrails())

	assert.Equal(t, []domain.RegionID{"beskidy", "mazury", "tatry"}, uc.Regions())
	assert.Equal(t, []int{1, 2, 4, 5}, uc.DifficultyLevels())
	assert.Equal(t, []string{"forest", "lakeside", "mountain", "rocky"}, uc.TerrainTypes())

	minLength, maxLength := uc.LengthRange()
	assert.Equal(t, 6.0, minLength)
	assert.Equal(t, 26.0, maxLength)
}

func TestCatalogLengthRange_Empty(t *testing.T) {
	uc := newTestCatalog(t, nil)

	minLength, maxLength := uc.LengthRange()
	assert.Equal(t, 0.0, minLength)
	assert.Equal(t, 0.0, maxLength)
}

func TestCatalogSave(t *testing.T) {
	repo := &stubTrailRepo{trails: testTrails()}
	uc := NewCatalogUseCase(repo, zap.NewNop())
	require.NoError(t, uc.Load(context.Background()))

	require.NoError(t, uc.Save(context.Background()))
	assert.Len(t, repo.saved, 4)
}
