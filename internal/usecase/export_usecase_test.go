package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/repository/file"
)

func testRecommendations() []domain.Recommendation {
	return []domain.Recommendation{
		{
			TrailID: "t1", Name: "Ridge Loop", Region: "tatry",
			LengthKm: 10, Difficulty: 3, ElevationGain: 300,
			TerrainType: "mountain",
			Categories:  []domain.Category{domain.CategorySport},
			EstimatedTime: "4h 48min", TotalScore: 88.0,
		},
	}
}

func TestExport_CSVWithGeneratedName(t *testing.T) {
	dir := t.TempDir()
	uc := NewExportUseCase(file.NewExportWriter(zap.NewNop()), dir, zap.NewNop())

	path, err := uc.Export(testRecommendations(), "csv", "")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ridge Loop")
}

func TestExport_ExplicitFilename(t *testing.T) {
	dir := t.TempDir()
	uc := NewExportUseCase(file.NewExportWriter(zap.NewNop()), dir, zap.NewNop())

	path, err := uc.Export(testRecommendations(), "json", "weekend-picks")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "weekend-picks.json"), path)

	// Path traversal in the filename is stripped to the base name.
	path, err = uc.Export(testRecommendations(), "json", "../../escape.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.json"), path)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	uc := NewExportUseCase(file.NewExportWriter(zap.NewNop()), t.TempDir(), zap.NewNop())

	_, err := uc.Export(testRecommendations(), "xlsx", "")
	assert.Error(t, err)
}

func TestExport_CreatesExportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	uc := NewExportUseCase(file.NewExportWriter(zap.NewNop()), dir, zap.NewNop())

	path, err := uc.Export(testRecommendations(), "csv", "picks")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
