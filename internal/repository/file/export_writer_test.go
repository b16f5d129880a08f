package file

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
)

func sampleRecommendations() []domain.Recommendation {
	return []domain.Recommendation{
		{
			TrailID: "t1", Name: "Ridge Loop", Region: "tatry",
			LengthKm: 10, Difficulty: 3, ElevationGain: 300,
			TerrainType: "mountain",
			Categories:  []domain.Category{domain.CategorySport},
			EstimatedTime: "4h 48min", WeatherComfortIndex: 86.5,
			PreferenceMatchScore: 92.3, TotalScore: 89.1,
		},
		{
			TrailID: "t2", Name: "Lakeside Walk", Region: "mazury",
			LengthKm: 5, Difficulty: 1, ElevationGain: 20,
			TerrainType: "lakeside",
			Categories:  []domain.Category{domain.CategoryFamily, domain.CategoryScenic},
			EstimatedTime: "1h 6min", WeatherScore: 74.0, TotalScore: 74.0,
		},
	}
}

func TestExportWriter_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writer := NewExportWriter(zap.NewNop())

	require.NoError(t, writer.WriteCSV(path, sampleRecommendations()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportCSVHeader, rows[0])
	assert.Equal(t, "Ridge Loop", rows[1][0])
	assert.Equal(t, "sport", rows[1][5])
	// Legacy results carry the weather score in the comfort column.
	assert.Equal(t, "74", rows[2][7])
	assert.Equal(t, "family;scenic", rows[2][5])
}

func TestExportWriter_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	writer := NewExportWriter(zap.NewNop())

	require.NoError(t, writer.WriteJSON(path, sampleRecommendations()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Recommendations []map[string]interface{} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Recommendations, 2)

	assert.Equal(t, "Ridge Loop", doc.Recommendations[0]["name"])
	assert.Equal(t, 89.1, doc.Recommendations[0]["total_score"])
}
