package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
)

// stubWeatherRepo is an in-memory WeatherRepository for tests.
type stubWeatherRepo struct {
	records []domain.WeatherRecord
	loadErr error
	saved   []domain.WeatherRecord
}

func (s *stubWeatherRepo) LoadAll(ctx context.Context) ([]domain.WeatherRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.records, nil
}

func (s *stubWeatherRepo) SaveAll(ctx context.Context, records []domain.WeatherRecord) error {
	s.saved = records
	return nil
}

// optimalDay yields a comfort index of exactly 100.
func optimalDay(location domain.RegionID, date time.Time) domain.WeatherRecord {
	return domain.WeatherRecord{
		Date:          date,
		LocationID:    location,
		AvgTemp:       20,
		MinTemp:       14,
		MaxTemp:       24,
		Precipitation: 0,
		SunshineHours: 8,
		CloudCover:    10,
	}
}

func newTestWeather(t *testing.T, records []domain.WeatherRecord) *WeatherUseCase {
	t.Helper()
	uc := NewWeatherUseCase(&stubWeatherRepo{records: records}, nil, time.Minute, zap.NewNop())
	require.NoError(t, uc.Load(context.Background()))
	return uc
}

func TestStatistics_EmptySubset(t *testing.T) {
	uc := newTestWeather(t, nil)

	stats := uc.Statistics(context.Background(), "tatry", nil, nil)
	assert.Equal(t, domain.WeatherStats{}, stats)
}

func TestStatistics_Computes(t *testing.T) {
	records := []domain.WeatherRecord{
		{Date: domain.Date(2025, 6, 1), LocationID: "tatry", AvgTemp: 20, Precipitation: 0, SunshineHours: 8, CloudCover: 10},
		{Date: domain.Date(2025, 6, 2), LocationID: "tatry", AvgTemp: 10, Precipitation: 4, SunshineHours: 2, CloudCover: 90},
		{Date: domain.Date(2025, 6, 1), LocationID: "mazury", AvgTemp: 30, Precipitation: 0, SunshineHours: 10, CloudCover: 0},
	}
	uc := newTestWeather(t, records)

	stats := uc.Statistics(context.Background(), "tatry", nil, nil)

	assert.InDelta(t, 15.0, stats.AvgTemperature, 1e-9)
	assert.InDelta(t, 4.0, stats.TotalPrecipitation, 1e-9)
	assert.InDelta(t, 5.0, stats.AvgSunshineHours, 1e-9)
	assert.Equal(t, 1, stats.SunnyDaysCount)
	assert.Equal(t, 1, stats.RainyDaysCount)
	assert.Greater(t, stats.AvgComfortIndex, 0.0)
}

func TestStatistics_DateRange(t *testing.T) {
	records := []domain.WeatherRecord{
		optimalDay("tatry", domain.Date(2025, 6, 1)),
		optimalDay("tatry", domain.Date(2025, 6, 10)),
	}
	uc := newTestWeather(t, records)

	start := domain.Date(2025, 6, 5)
	end := domain.Date(2025, 6, 15)
	stats := uc.Statistics(context.Background(), "tatry", &start, &end)

	assert.Equal(t, 1, stats.SunnyDaysCount)
}

func TestCountSunnyRainyDays(t *testing.T) {
	records := []domain.WeatherRecord{
		{Date: domain.Date(2025, 6, 1), LocationID: "tatry", SunshineHours: 7, CloudCover: 20},
		{Date: domain.Date(2025, 6, 2), LocationID: "tatry", SunshineHours: 6, CloudCover: 80, Precipitation: 2},
		{Date: domain.Date(2025, 6, 3), LocationID: "tatry", SunshineHours: 1, CloudCover: 100, Precipitation: 9},
	}
	uc := newTestWeather(t, records)

	assert.Equal(t, 1, uc.CountSunnyDays("tatry", nil, nil))
	assert.Equal(t, 2, uc.CountRainyDays("tatry", nil, nil))
}

func TestFindBestPeriods(t *testing.T) {
	// Two perfect runs separated by a gap, plus a mediocre run.
	records := []domain.WeatherRecord{
		optimalDay("tatry", domain.Date(2025, 6, 1)),
		optimalDay("tatry", domain.Date(2025, 6, 2)),
		optimalDay("tatry", domain.Date(2025, 6, 3)),
		// Gap: June 4 missing.
		{Date: domain.Date(2025, 6, 5), LocationID: "tatry", AvgTemp: 30, Precipitation: 0, SunshineHours: 8, CloudCover: 10},
		{Date: domain.Date(2025, 6, 6), LocationID: "tatry", AvgTemp: 30, Precipitation: 0, SunshineHours: 8, CloudCover: 10},
	}
	uc := newTestWeather(t, records)

	periods := uc.FindBestPeriods("tatry", 2, 85)

	// Windows: [1-2] and [2-3] at 100, [5-6] at 90. [3,5] is not consecutive.
	require.Len(t, periods, 3)
	assert.Equal(t, domain.Date(2025, 6, 1), periods[0].Start)
	assert.Equal(t, domain.Date(2025, 6, 2), periods[1].Start)
	assert.Equal(t, domain.Date(2025, 6, 5), periods[2].Start)
	assert.InDelta(t, 100.0, periods[0].AvgComfort, 1e-9)
	assert.InDelta(t, 90.0, periods[2].AvgComfort, 1e-9)
}

func TestFindBestPeriods_Threshold(t *testing.T) {
	records := []domain.WeatherRecord{
		optimalDay("tatry", domain.Date(2025, 6, 1)),
		optimalDay("tatry", domain.Date(2025, 6, 2)),
	}
	uc := newTestWeather(t, records)

	assert.Len(t, uc.FindBestPeriods("tatry", 2, 100), 1)
	assert.Empty(t, uc.FindBestPeriods("tatry", 2, 100.5))
	assert.Empty(t, uc.FindBestPeriods("tatry", 3, 50))
	assert.Empty(t, uc.FindBestPeriods("tatry", 0, 50))
}

func TestMerge(t *testing.T) {
	existing := optimalDay("tatry", domain.Date(2025, 6, 1))
	uc := newTestWeather(t, []domain.WeatherRecord{existing})

	updated := existing
	updated.AvgTemp = 12
	fresh := optimalDay("tatry", domain.Date(2025, 6, 2))

	uc.Merge(context.Background(), []domain.WeatherRecord{updated, fresh})

	records := uc.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 12.0, records[0].AvgTemp)
	assert.Equal(t, domain.Date(2025, 6, 2), records[1].Date)
}

func TestLocationsAndDateRange(t *testing.T) {
	records := []domain.WeatherRecord{
		optimalDay("tatry", domain.Date(2025, 6, 5)),
		optimalDay("beskidy", domain.Date(2025, 6, 1)),
		optimalDay("tatry", domain.Date(2025, 6, 9)),
	}
	uc := newTestWeather(t, records)

	assert.Equal(t, []domain.RegionID{"beskidy", "tatry"}, uc.Locations())

	earliest, latest, ok := uc.DateRange()
	require.True(t, ok)
	assert.Equal(t, domain.Date(2025, 6, 1), earliest)
	assert.Equal(t, domain.Date(2025, 6, 9), latest)

	empty := newTestWeather(t, nil)
	_, _, ok = empty.DateRange()
	assert.False(t, ok)
}
