package dto

import (
	"time"

	"github.com/trail-recommender/internal/domain"
)

// TrailParams narrows the candidate set of a recommendation request. All
// fields are optional; difficulty is the legacy exact-match field used only
// when the min/max pair is absent.
type TrailParams struct {
	MinLength     *float64 `json:"min_length" validate:"omitempty,min=0"`
	MaxLength     *float64 `json:"max_length" validate:"omitempty,min=0"`
	MinDifficulty *int     `json:"min_difficulty" validate:"omitempty,min=1,max=5"`
	MaxDifficulty *int     `json:"max_difficulty" validate:"omitempty,min=1,max=5"`
	Difficulty    *int     `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Region        *string  `json:"region"`
	Categories    []string `json:"categories,omitempty" validate:"omitempty,dive,oneof=family scenic sport extreme"`
}

// ToFilter converts the request params to the domain filter.
func (p *TrailParams) ToFilter() domain.TrailFilter {
	filter := domain.TrailFilter{
		MinLength:     p.MinLength,
		MaxLength:     p.MaxLength,
		MinDifficulty: p.MinDifficulty,
		MaxDifficulty: p.MaxDifficulty,
		Difficulty:    p.Difficulty,
	}
	if p.Region != nil {
		region := domain.RegionID(*p.Region)
		filter.Region = &region
	}
	for _, category := range p.Categories {
		filter.Categories = append(filter.Categories, domain.Category(category))
	}
	return filter
}

// WeatherPreferences overrides the legacy weather-only scoring defaults.
// Omitted fields keep the defaults (15-25 C, 5 mm, 4-24 h, weights 40/30/30).
type WeatherPreferences struct {
	MinTemp          *float64 `json:"min_temp"`
	MaxTemp          *float64 `json:"max_temp"`
	MaxPrecipitation *float64 `json:"max_precipitation" validate:"omitempty,min=0"`
	MinSunshineHours *float64 `json:"min_sunshine_hours" validate:"omitempty,min=0,max=24"`
	MaxSunshineHours *float64 `json:"max_sunshine_hours" validate:"omitempty,min=0,max=24"`
	TempWeight       *float64 `json:"temp_weight" validate:"omitempty,min=0"`
	PrecipWeight     *float64 `json:"precip_weight" validate:"omitempty,min=0"`
	SunshineWeight   *float64 `json:"sunshine_weight" validate:"omitempty,min=0"`
}

// ToLegacy merges the overrides onto the legacy defaults.
func (p *WeatherPreferences) ToLegacy() domain.LegacyWeatherPreferences {
	prefs := domain.DefaultLegacyWeatherPreferences()
	if p.MinTemp != nil {
		prefs.MinTemp = *p.MinTemp
	}
	if p.MaxTemp != nil {
		prefs.MaxTemp = *p.MaxTemp
	}
	if p.MaxPrecipitation != nil {
		prefs.MaxPrecipitation = *p.MaxPrecipitation
	}
	if p.MinSunshineHours != nil {
		prefs.MinSunshineHours = *p.MinSunshineHours
	}
	if p.MaxSunshineHours != nil {
		prefs.MaxSunshineHours = *p.MaxSunshineHours
	}
	if p.TempWeight != nil {
		prefs.TempWeight = *p.TempWeight
	}
	if p.PrecipWeight != nil {
		prefs.PrecipWeight = *p.PrecipWeight
	}
	if p.SunshineWeight != nil {
		prefs.SunshineWeight = *p.SunshineWeight
	}
	return prefs
}

// RecommendRequest asks for ranked trails over a date window. When
// weather_preferences is present the legacy weather-only scoring applies;
// otherwise the active preference profile, or neutral scoring without one.
type RecommendRequest struct {
	StartDate          string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	Limit              int                 `json:"limit" validate:"omitempty,min=1,max=100"`
	TrailParams        *TrailParams        `json:"trail_params" validate:"omitempty"`
	WeatherPreferences *WeatherPreferences `json:"weather_preferences" validate:"omitempty"`
}

// DateWindow parses the request dates.
func (r *RecommendRequest) DateWindow() (time.Time, time.Time, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// WeeklyRequest asks for per-day top lists over seven days. start_date
// defaults to today.
type WeeklyRequest struct {
	StartDate          string              `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TrailParams        *TrailParams        `json:"trail_params" validate:"omitempty"`
	WeatherPreferences *WeatherPreferences `json:"weather_preferences" validate:"omitempty"`
}

// ExportRequest recomputes a recommendation set and writes it to a file.
type ExportRequest struct {
	Format             string              `json:"format" validate:"required,oneof=csv json"`
	Filename           string              `json:"filename" validate:"omitempty,max=128"`
	StartDate          string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	Limit              int                 `json:"limit" validate:"omitempty,min=1,max=100"`
	TrailParams        *TrailParams        `json:"trail_params" validate:"omitempty"`
	WeatherPreferences *WeatherPreferences `json:"weather_preferences" validate:"omitempty"`
}

// WeightsRequest replaces a batch of scoring weights. Unknown names are
// ignored server-side.
type WeightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,min=1"`
}

// RefreshRequest triggers a forecast fetch for the given locations, or for
// every region in the catalog when empty.
type RefreshRequest struct {
	Locations []string `json:"locations" validate:"omitempty,dive,min=1"`
	Days      int      `json:"days" validate:"omitempty,min=1,max=16"`
}

// BestPeriodsQuery tunes the per-trail optimal-period search.
type BestPeriodsQuery struct {
	DaysRange    int     `json:"days_range" validate:"omitempty,min=1,max=365"`
	MinComfort   float64 `json:"min_comfort" validate:"omitempty,min=0,max=100"`
	PeriodLength int     `json:"period_length" validate:"omitempty,min=1,max=30"`
}
