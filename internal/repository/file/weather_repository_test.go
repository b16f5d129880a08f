package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
)

func sampleRecords() []domain.WeatherRecord {
	return []domain.WeatherRecord{
		{
			Date: domain.Date(2025, 6, 1), LocationID: "tatry",
			AvgTemp: 18.5, MinTemp: 12.1, MaxTemp: 23.4,
			Precipitation: 0, SunshineHours: 9.5, CloudCover: 15,
		},
		{
			Date: domain.Date(2025, 6, 2), LocationID: "tatry",
			AvgTemp: 14.2, MinTemp: 10, MaxTemp: 17.8,
			Precipitation: 6.3, SunshineHours: 2, CloudCover: 85,
		},
	}
}

func TestWeatherRepository_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	repo := NewWeatherRepository(path, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, sampleRecords()))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), loaded)
}

func TestWeatherRepository_JSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.json")
	repo := NewWeatherRepository(path, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, sampleRecords()))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), loaded)
}

func TestWeatherRepository_BadDateFailsWithRowNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	content := "date,location_id,avg_temp,min_temp,max_temp,precipitation,sunshine_hours,cloud_cover\n" +
		"2025-06-01,tatry,18.5,12.1,23.4,0,9.5,15\n" +
		"01.06.2025,tatry,14.2,10,17.8,6.3,2,85\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := NewWeatherRepository(path, zap.NewNop())
	_, err := repo.LoadAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "date")
}

func TestWeatherRepository_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	repo := NewWeatherRepository(path, zap.NewNop())
	_, err := repo.LoadAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}
