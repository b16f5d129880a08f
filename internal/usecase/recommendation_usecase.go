package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/pkg/utils"
)

const (
	// Defaults for the optimal-period and statistics lookups.
	defaultPeriodLength  = 3
	defaultPeriodComfort = 70.0
	defaultPeriodHorizon = 30
	statsPeriodLength    = 7
	statsPeriodComfort   = 70.0
	bestMonthsLimit      = 3
	weeklyDays           = 7
	weeklyPerDayLimit    = 3
)

// RecommendationUseCase ranks catalog trails for a date window using one of
// three scoring strategies: the full preference profile, legacy weather-only
// preferences, or a neutral fallback. Recommendation is best-effort: internal
// failures degrade to an empty list, never an error.
type RecommendationUseCase struct {
	catalog *CatalogUseCase
	weather *WeatherUseCase
	prefs   *PreferenceUseCase
	logger  *zap.Logger
}

func NewRecommendationUseCase(
	catalog *CatalogUseCase,
	weather *WeatherUseCase,
	prefs *PreferenceUseCase,
	logger *zap.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		catalog: catalog,
		weather: weather,
		prefs:   prefs,
		logger:  logger,
	}
}

// TrailStatistics is the combined per-trail report: catalog attributes, the
// region's aggregate weather and the historically best months to visit.
type TrailStatistics struct {
	TrailID        string              `json:"id"`
	Name           string              `json:"name"`
	Region         domain.RegionID     `json:"region"`
	LengthKm       float64             `json:"length_km"`
	Difficulty     int                 `json:"difficulty"`
	ElevationGain  float64             `json:"elevation_gain"`
	TerrainType    string              `json:"terrain_type"`
	Categories     []domain.Category   `json:"categories"`
	EstimatedTime  string              `json:"estimated_time"`
	StraightLineKm float64             `json:"straight_line_km"`
	Weather        domain.WeatherStats `json:"weather"`
	BestMonths     []string            `json:"best_months"`
}

// ResolveStrategy picks the scoring strategy for a request. An active
// preference profile always wins; legacy weather preferences apply only
// without one, and neutral scoring covers the rest.
func (uc *RecommendationUseCase) ResolveStrategy(legacy *domain.LegacyWeatherPreferences) domain.ScoringStrategy {
	if profile, ok := uc.prefs.Profile(); ok {
		return domain.ProfileScoring{Profile: &profile}
	}
	if legacy != nil {
		return domain.LegacyScoring{Prefs: *legacy}
	}
	return domain.NeutralScoring{}
}

// FilterTrailsByParams filters the current catalog snapshot.
func (uc *RecommendationUseCase) FilterTrailsByParams(filter domain.TrailFilter) []domain.Trail {
	return FilterByParams(uc.catalog.Trails(), filter)
}

// RecommendRoutes scores candidate trails for [startDate, endDate] and
// returns them ordered by total score descending. Equal scores keep catalog
// order. A negative limit means no limit.
func (uc *RecommendationUseCase) RecommendRoutes(
	ctx context.Context,
	startDate, endDate time.Time,
	strategy domain.ScoringStrategy,
	filter *domain.TrailFilter,
	limit int,
) (recommendations []domain.Recommendation) {
	// Recommendation never fails the caller: a panic anywhere below degrades
	// to an empty result.
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Recommendation aborted", zap.Any("panic", r))
			recommendations = nil
		}
	}()

	if uc.catalog.Count() == 0 || uc.weather.Count() == 0 {
		uc.logger.Warn("Recommendation requested with no data loaded",
			zap.Int("trails", uc.catalog.Count()),
			zap.Int("weather_records", uc.weather.Count()),
		)
		return nil
	}
	if endDate.Before(startDate) {
		uc.logger.Warn("Recommendation requested with reversed date range",
			zap.String("start", domain.FormatDate(startDate)),
			zap.String("end", domain.FormatDate(endDate)),
		)
		return nil
	}
	if legacy, ok := strategy.(domain.LegacyScoring); ok && legacy.Prefs.MinTemp > legacy.Prefs.MaxTemp {
		uc.logger.Warn("Recommendation requested with reversed temperature range")
		return nil
	}

	candidates := uc.selectCandidates(strategy, filter)
	if len(candidates) == 0 {
		return nil
	}

	recommendations = uc.CalculateTrailScores(ctx, candidates, startDate, endDate, strategy)

	if limit >= 0 && len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

// selectCandidates picks the trails to score: the explicit filter when given,
// else the profile's hard bounds on the profile path, else the full catalog.
func (uc *RecommendationUseCase) selectCandidates(strategy domain.ScoringStrategy, filter *domain.TrailFilter) []domain.Trail {
	if filter != nil {
		return uc.FilterTrailsByParams(*filter)
	}

	trails := uc.catalog.Trails()
	if profile, ok := strategy.(domain.ProfileScoring); ok {
		bounds := profile.Profile.Bounds()
		kept := make([]domain.Trail, 0, len(trails))
		for _, trail := range trails {
			if trail.MatchesBounds(bounds) {
				kept = append(kept, trail)
			}
		}
		return kept
	}
	return trails
}

// CalculateTrailScores scores every trail with the given strategy and sorts
// by total score descending. The sort is stable, so equal scores keep input
// order.
func (uc *RecommendationUseCase) CalculateTrailScores(
	ctx context.Context,
	trails []domain.Trail,
	startDate, endDate time.Time,
	strategy domain.ScoringStrategy,
) []domain.Recommendation {
	recommendations := make([]domain.Recommendation, 0, len(trails))

	for _, trail := range trails {
		rec := domain.Recommendation{
			TrailID:       trail.ID,
			Name:          trail.Name,
			Region:        trail.Region,
			LengthKm:      trail.LengthKm,
			Difficulty:    trail.Difficulty,
			ElevationGain: trail.ElevationGain,
			TerrainType:   trail.TerrainType,
			Categories:    trail.Categories(),
			EstimatedTime: trail.EstimatedTime(),
		}

		switch s := strategy.(type) {
		case domain.ProfileScoring:
			uc.scoreWithProfile(&rec, trail, startDate, endDate, s.Profile)
		case domain.LegacyScoring:
			rec.WeatherScore = uc.legacyWeatherScore(ctx, trail.Region, startDate, endDate, s.Prefs)
			rec.TotalScore = rec.WeatherScore
		default:
			rec.TotalScore = domain.NeutralScore
		}

		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].TotalScore > recommendations[j].TotalScore
	})
	return recommendations
}

// scoreWithProfile blends the trail's preference match with the region's mean
// comfort index over the window, weighted by the profile's weather weight.
func (uc *RecommendationUseCase) scoreWithProfile(
	rec *domain.Recommendation,
	trail domain.Trail,
	startDate, endDate time.Time,
	profile *domain.PreferenceProfile,
) {
	comfort := round1(uc.weather.AvgComfortIndex(trail.Region, &startDate, &endDate))
	rec.WeatherComfortIndex = comfort

	meets, matchScore := profile.CheckTrailMatch(trail)
	rec.PreferenceMatchScore = round1(matchScore * 100)

	if !meets {
		rec.TotalScore = 0
		return
	}

	weatherWeight := profile.Weights[domain.WeightWeather]
	rec.TotalScore = round1((matchScore*(100-weatherWeight) + comfort*weatherWeight/100) / 100 * 100)
}

// legacyWeatherScore rates the region's aggregate weather over the window on
// a 0-100 scale from the three legacy components. Temperature and sunshine
// decay by 4 points of weight per unit outside the preferred band;
// precipitation scales linearly up to the cap.
func (uc *RecommendationUseCase) legacyWeatherScore(
	ctx context.Context,
	region domain.RegionID,
	startDate, endDate time.Time,
	prefs domain.LegacyWeatherPreferences,
) float64 {
	stats := uc.weather.Statistics(ctx, region, &startDate, &endDate)

	score := 0.0

	if stats.AvgTemperature >= prefs.MinTemp && stats.AvgTemperature <= prefs.MaxTemp {
		score += prefs.TempWeight
	} else {
		distance := math.Min(
			math.Abs(stats.AvgTemperature-prefs.MinTemp),
			math.Abs(stats.AvgTemperature-prefs.MaxTemp),
		)
		score += math.Max(0, prefs.TempWeight-4*distance)
	}

	if prefs.MaxPrecipitation > 0 {
		if stats.TotalPrecipitation <= prefs.MaxPrecipitation {
			score += prefs.PrecipWeight * (1 - stats.TotalPrecipitation/prefs.MaxPrecipitation)
		}
	} else if stats.TotalPrecipitation <= 0 {
		score += prefs.PrecipWeight
	}

	if stats.AvgSunshineHours >= prefs.MinSunshineHours && stats.AvgSunshineHours <= prefs.MaxSunshineHours {
		score += prefs.SunshineWeight
	} else {
		distance := math.Min(
			math.Abs(stats.AvgSunshineHours-prefs.MinSunshineHours),
			math.Abs(stats.AvgSunshineHours-prefs.MaxSunshineHours),
		)
		score += math.Max(0, prefs.SunshineWeight-4*distance)
	}

	return score
}

// GenerateWeeklyRecommendation produces per-day top lists for seven days
// starting at startDate (today when nil). Days are scored independently, so
// one bad day never empties the rest of the week.
func (uc *RecommendationUseCase) GenerateWeeklyRecommendation(
	ctx context.Context,
	startDate *time.Time,
	strategy domain.ScoringStrategy,
	filter *domain.TrailFilter,
) map[string][]domain.Recommendation {
	start := domain.Today()
	if startDate != nil {
		start = *startDate
	}

	weekly := make(map[string][]domain.Recommendation, weeklyDays)
	for i := 0; i < weeklyDays; i++ {
		day := start.AddDate(0, 0, i)
		weekly[domain.FormatDate(day)] = uc.RecommendRoutes(ctx, day, day, strategy, filter, weeklyPerDayLimit)
	}
	return weekly
}

// FindOptimalWeatherPeriods returns comfortable multi-day windows for the
// trail's region that start within daysRange days from today. Non-positive
// arguments fall back to the defaults (30 days, comfort 70, 3-day windows).
func (uc *RecommendationUseCase) FindOptimalWeatherPeriods(
	trail domain.Trail,
	daysRange int,
	minComfort float64,
	periodLength int,
) []domain.BestPeriod {
	if daysRange <= 0 {
		daysRange = defaultPeriodHorizon
	}
	if minComfort <= 0 {
		minComfort = defaultPeriodComfort
	}
	if periodLength <= 0 {
		periodLength = defaultPeriodLength
	}

	today := domain.Today()
	horizon := today.AddDate(0, 0, daysRange)

	periods := uc.weather.FindBestPeriods(trail.Region, periodLength, minComfort)
	kept := make([]domain.BestPeriod, 0, len(periods))
	for _, period := range periods {
		if period.Start.Before(today) || period.Start.After(horizon) {
			continue
		}
		kept = append(kept, period)
	}
	return kept
}

// GetTrailStatistics builds the combined report for one trail: attributes,
// the straight-line start/end distance, the region's weather aggregate and
// the best months ranked by how often a comfortable week occurs in them.
func (uc *RecommendationUseCase) GetTrailStatistics(ctx context.Context, trail domain.Trail) TrailStatistics {
	stats := TrailStatistics{
		TrailID:       trail.ID,
		Name:          trail.Name,
		Region:        trail.Region,
		LengthKm:      trail.LengthKm,
		Difficulty:    trail.Difficulty,
		ElevationGain: trail.ElevationGain,
		TerrainType:   trail.TerrainType,
		Categories:    trail.Categories(),
		EstimatedTime: trail.EstimatedTime(),
		StraightLineKm: utils.HaversineDistance(
			trail.StartLat, trail.StartLon, trail.EndLat, trail.EndLon,
		),
		Weather: uc.weather.Statistics(ctx, trail.Region, nil, nil),
	}

	stats.BestMonths = uc.bestMonths(trail.Region)
	return stats
}

// bestMonths groups the region's comfortable week-long periods by calendar
// month and ranks months by occurrence count, then mean comfort.
func (uc *RecommendationUseCase) bestMonths(region domain.RegionID) []string {
	periods := uc.weather.FindBestPeriods(region, statsPeriodLength, statsPeriodComfort)
	if len(periods) == 0 {
		return nil
	}

	type monthAgg struct {
		month      time.Month
		count      int
		comfortSum float64
	}

	byMonth := make(map[time.Month]*monthAgg)
	var order []time.Month
	for _, period := range periods {
		month := period.Start.Month()
		agg, ok := byMonth[month]
		if !ok {
			agg = &monthAgg{month: month}
			byMonth[month] = agg
			order = append(order, month)
		}
		agg.count++
		agg.comfortSum += period.AvgComfort
	}

	ranked := make([]*monthAgg, 0, len(order))
	for _, month := range order {
		ranked = append(ranked, byMonth[month])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].comfortSum/float64(ranked[i].count) >
			ranked[j].comfortSum/float64(ranked[j].count)
	})

	if len(ranked) > bestMonthsLimit {
		ranked = ranked[:bestMonthsLimit]
	}

	months := make([]string, 0, len(ranked))
	for _, agg := range ranked {
		months = append(months, agg.month.String())
	}
	return months
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
