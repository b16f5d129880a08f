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

func newTestEngine(t *testing.T, trails []domain.Trail, records []domain.WeatherRecord) (*RecommendationUseCase, *PreferenceUseCase) {
	t.Helper()

	catalog := newTestCatalog(t, trails)
	weather := newTestWeather(t, records)
	prefs := NewPreferenceUseCase(zap.NewNop())

	return NewRecommendationUseCase(catalog, weather, prefs, zap.NewNop()), prefs
}

func june(day int) time.Time {
	return domain.Date(2025, 6, day)
}

func TestRecommendRoutes_Guards(t *testing.T) {
	trails := testTrails()
	records := []domain.WeatherRecord{optimalDay("tatry", june(1))}

	t.Run("empty catalog", func(t *testing.T) {
		uc, _ := newTestEngine(t, nil, records)
		assert.Empty(t, uc.RecommendRoutes(context.Background(), june(1), june(7), domain.NeutralScoring{}, nil, -1))
	})

	t.Run("empty weather series", func(t *testing.T) {
		uc, _ := newTestEngine(t, trails, nil)
		assert.Empty(t, uc.RecommendRoutes(context.Background(), june(1), june(7), domain.NeutralScoring{}, nil, -1))
	})

	t.Run("reversed date range", func(t *testing.T) {
		uc, _ := newTestEngine(t, trails, records)
		assert.Empty(t, uc.RecommendRoutes(context.Background(), june(7), june(1), domain.NeutralScoring{}, nil, -1))
	})

	t.Run("reversed legacy temperature range", func(t *testing.T) {
		uc, _ := newTestEngine(t, trails, records)
		prefs := domain.DefaultLegacyWeatherPreferences()
		prefs.MinTemp, prefs.MaxTemp = 25, 15
		assert.Empty(t, uc.RecommendRoutes(context.Background(), june(1), june(7), domain.LegacyScoring{Prefs: prefs}, nil, -1))
	})
}

func TestResolveStrategy_Precedence(t *testing.T) {
	uc, prefs := newTestEngine(t, testTrails(), []domain.WeatherRecord{optimalDay("tatry", june(1))})
	legacy := domain.DefaultLegacyWeatherPreferences()

	// Without a profile, explicit legacy preferences apply.
	assert.IsType(t, domain.LegacyScoring{}, uc.ResolveStrategy(&legacy))
	assert.IsType(t, domain.NeutralScoring{}, uc.ResolveStrategy(nil))

	// An active profile wins even over explicit legacy preferences.
	prefs.SetProfile(domain.NewPreferenceProfile())
	assert.IsType(t, domain.ProfileScoring{}, uc.ResolveStrategy(&legacy))
	assert.IsType(t, domain.ProfileScoring{}, uc.ResolveStrategy(nil))
}

func TestRecommendRoutes_NeutralScoring(t *testing.T) {
	uc, _ := newTestEngine(t, testTrails(), []domain.WeatherRecord{optimalDay("tatry", june(1))})

	recs := uc.RecommendRoutes(context.Background(), june(1), june(7), domain.NeutralScoring{}, nil, -1)

	require.Len(t, recs, 4)
	for _, rec := range recs {
		assert.Equal(t, domain.NeutralScore, rec.TotalScore)
	}
	// Equal scores keep catalog order.
	assert.Equal(t, "t1", recs[0].TrailID)
}

func TestRecommendRoutes_ProfileScoring(t *testing.T) {
	trail := domain.Trail{
		ID: "t1", Name: "Ridge Loop", Region: "tatry",
		LengthKm: 10, ElevationGain: 0, Difficulty: 3, TerrainType: "mountain",
	}
	// Comfort 70: optimal temperature and dry, but no sun and full cloud.
	records := []domain.WeatherRecord{
		{Date: june(1), LocationID: "tatry", AvgTemp: 20, Precipitation: 0, SunshineHours: 0, CloudCover: 100},
	}
	uc, prefs := newTestEngine(t, []domain.Trail{trail}, records)

	profile := domain.NewPreferenceProfile()
	profile.MinDifficulty = 2
	profile.MaxDifficulty = 4
	profile.MinLength = 5
	profile.MaxLength = 15
	prefs.SetProfile(profile)

	strategy := uc.ResolveStrategy(nil)
	require.IsType(t, domain.ProfileScoring{}, strategy)

	recs := uc.RecommendRoutes(context.Background(), june(1), june(1), strategy, nil, -1)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.InDelta(t, 70.0, rec.WeatherComfortIndex, 1e-9)
	assert.InDelta(t, 100.0, rec.PreferenceMatchScore, 1e-9)
	// (1.0*(100-40) + 70*40/100) / 100 * 100 with the default weather weight 40.
	assert.InDelta(t, 88.0, rec.TotalScore, 1e-9)
}

func TestRecommendRoutes_ProfileBoundsPruneCandidates(t *testing.T) {
	records := []domain.WeatherRecord{optimalDay("tatry", june(1))}
	uc, prefs := newTestEngine(t, testTrails(), records)

	profile := domain.NewPreferenceProfile()
	profile.MaxDifficulty = 2
	prefs.SetProfile(profile)

	recs := uc.RecommendRoutes(context.Background(), june(1), june(1), uc.ResolveStrategy(nil), nil, -1)

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.LessOrEqual(t, rec.Difficulty, 2)
	}
}

func TestRecommendRoutes_LegacyScoring(t *testing.T) {
	trails := []domain.Trail{
		{ID: "good", Name: "Good Weather Trail", Region: "tatry", LengthKm: 10, Difficulty: 2, TerrainType: "forest"},
		{ID: "bad", Name: "Bad Weather Trail", Region: "beskidy", LengthKm: 10, Difficulty: 2, TerrainType: "forest"},
	}
	records := []domain.WeatherRecord{
		// tatry: temp in band, dry, sunshine in band -> 40 + 30 + 30.
		{Date: june(1), LocationID: "tatry", AvgTemp: 20, Precipitation: 0, SunshineHours: 6},
		// beskidy: 5 under the band, 10 mm over cap, 2 h under the sun band.
		{Date: june(1), LocationID: "beskidy", AvgTemp: 10, Precipitation: 10, SunshineHours: 2},
	}
	uc, _ := newTestEngine(t, trails, records)

	strategy := domain.LegacyScoring{Prefs: domain.DefaultLegacyWeatherPreferences()}
	recs := uc.RecommendRoutes(context.Background(), june(1), june(1), strategy, nil, -1)

	require.Len(t, recs, 2)
	assert.Equal(t, "good", recs[0].TrailID)
	assert.InDelta(t, 100.0, recs[0].WeatherScore, 1e-9)
	assert.Equal(t, recs[0].WeatherScore, recs[0].TotalScore)

	// temp: max(0, 40-4*5) = 20; precip over cap: 0; sunshine: max(0, 30-4*2) = 22.
	assert.Equal(t, "bad", recs[1].TrailID)
	assert.InDelta(t, 42.0, recs[1].WeatherScore, 1e-9)
}

func TestRecommendRoutes_Idempotent(t *testing.T) {
	uc, prefs := newTestEngine(t, testTrails(), []domain.WeatherRecord{optimalDay("tatry", june(1))})
	prefs.SetProfile(domain.NewPreferenceProfile())

	strategy := uc.ResolveStrategy(nil)
	first := uc.RecommendRoutes(context.Background(), june(1), june(7), strategy, nil, -1)
	second := uc.RecommendRoutes(context.Background(), june(1), june(7), strategy, nil, -1)

	assert.Equal(t, first, second)
}

func TestRecommendRoutes_FilterAndLimit(t *testing.T) {
	uc, _ := newTestEngine(t, testTrails(), []domain.WeatherRecord{optimalDay("tatry", june(1))})

	region := domain.RegionID("tatry")
	filter := &domain.TrailFilter{Region: &region}

	recs := uc.RecommendRoutes(context.Background(), june(1), june(1), domain.NeutralScoring{}, filter, 1)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.RegionID("tatry"), recs[0].Region)
}

func TestGenerateWeeklyRecommendation(t *testing.T) {
	records := make([]domain.WeatherRecord, 0, 7)
	for day := 1; day <= 7; day++ {
		records = append(records, optimalDay("tatry", june(day)))
	}
	uc, _ := newTestEngine(t, testTrails(), records)

	start := june(1)
	weekly := uc.GenerateWeeklyRecommendation(context.Background(), &start, domain.NeutralScoring{}, nil)

	require.Len(t, weekly, 7)
	for day := 1; day <= 7; day++ {
		key := domain.FormatDate(june(day))
		recs, ok := weekly[key]
		require.True(t, ok, "missing day %s", key)
		assert.LessOrEqual(t, len(recs), 3)
	}
}

func TestFindOptimalWeatherPeriods(t *testing.T) {
	today := domain.Today()
	records := []domain.WeatherRecord{
		// Three perfect consecutive days starting tomorrow.
		optimalDay("tatry", today.AddDate(0, 0, 1)),
		optimalDay("tatry", today.AddDate(0, 0, 2)),
		optimalDay("tatry", today.AddDate(0, 0, 3)),
		// A perfect run far beyond the horizon.
		optimalDay("tatry", today.AddDate(0, 0, 100)),
		optimalDay("tatry", today.AddDate(0, 0, 101)),
		optimalDay("tatry", today.AddDate(0, 0, 102)),
	}
	uc, _ := newTestEngine(t, testTrails(), records)

	trail := domain.Trail{ID: "t9", Region: "tatry"}
	periods := uc.FindOptimalWeatherPeriods(trail, 30, 70, 3)

	require.Len(t, periods, 1)
	assert.Equal(t, today.AddDate(0, 0, 1), periods[0].Start)
	assert.InDelta(t, 100.0, periods[0].AvgComfort, 1e-9)
}

func TestGetTrailStatistics(t *testing.T) {
	trail := domain.Trail{
		ID: "t1", Name: "Ridge Loop", Region: "tatry",
		StartLat: 49.2, StartLon: 19.9, EndLat: 49.3, EndLon: 20.0,
		LengthKm: 10, ElevationGain: 300, Difficulty: 2, TerrainType: "mountain",
	}
	records := make([]domain.WeatherRecord, 0, 8)
	for day := 1; day <= 8; day++ {
		records = append(records, optimalDay("tatry", june(day)))
	}
	uc, _ := newTestEngine(t, []domain.Trail{trail}, records)

	stats := uc.GetTrailStatistics(context.Background(), trail)

	assert.Equal(t, "t1", stats.TrailID)
	assert.Equal(t, "4h 21min", stats.EstimatedTime)
	assert.Greater(t, stats.StraightLineKm, 0.0)
	assert.InDelta(t, 100.0, stats.Weather.AvgComfortIndex, 1e-9)
	assert.Equal(t, []string{"June"}, stats.BestMonths)
}
