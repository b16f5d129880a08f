package dto

import (
	"math"

	"github.com/trail-recommender/internal/domain"
)

// RecommendResponse is the ranked result set for one date window.
type RecommendResponse struct {
	StartDate       string                  `json:"start_date"`
	EndDate         string                  `json:"end_date"`
	Strategy        string                  `json:"strategy"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Total           int                     `json:"total"`
}

// WeeklyResponse maps each date of the week to its top recommendations.
type WeeklyResponse struct {
	StartDate string                             `json:"start_date"`
	Days      map[string][]domain.Recommendation `json:"days"`
}

// TrailListResponse is a filtered catalog listing.
type TrailListResponse struct {
	Trails []domain.Trail `json:"trails"`
	Total  int            `json:"total"`
}

// CatalogMetaResponse summarizes the catalog for building filter UIs.
type CatalogMetaResponse struct {
	Regions          []domain.RegionID `json:"regions"`
	DifficultyLevels []int             `json:"difficulty_levels"`
	TerrainTypes     []string          `json:"terrain_types"`
	MinLengthKm      float64           `json:"min_length_km"`
	MaxLengthKm      float64           `json:"max_length_km"`
	Total            int               `json:"total"`
}

// WeatherStatsResponse wraps the aggregate statistics with the query echo.
type WeatherStatsResponse struct {
	Location string              `json:"location,omitempty"`
	Start    string              `json:"start,omitempty"`
	End      string              `json:"end,omitempty"`
	Stats    domain.WeatherStats `json:"stats"`
}

// BestPeriodsResponse lists comfortable multi-day windows for a trail.
type BestPeriodsResponse struct {
	TrailID      string           `json:"trail_id"`
	PeriodLength int              `json:"period_length"`
	MinComfort   float64          `json:"min_comfort"`
	Periods      []BestPeriodItem `json:"periods"`
}

// BestPeriodItem is one comfortable window.
type BestPeriodItem struct {
	StartDate  string  `json:"start_date"`
	AvgComfort float64 `json:"avg_comfort"`
}

// NewBestPeriodItems converts domain periods to their wire form.
func NewBestPeriodItems(periods []domain.BestPeriod) []BestPeriodItem {
	items := make([]BestPeriodItem, 0, len(periods))
	for _, period := range periods {
		items = append(items, BestPeriodItem{
			StartDate:  domain.FormatDate(period.Start),
			AvgComfort: period.AvgComfort,
		})
	}
	return items
}

// ExportResponse reports where an export landed.
type ExportResponse struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Count  int    `json:"count"`
}

// RefreshResponse reports the outcome of a forecast refresh.
type RefreshResponse struct {
	Locations []string `json:"locations"`
	Fetched   int      `json:"fetched"`
	Failed    []string `json:"failed,omitempty"`
}

// PreferenceResponse echoes the profile after an update.
type PreferenceResponse struct {
	Profile ProfileView `json:"profile"`
	Active  bool        `json:"active"`
}

// ProfileView is the wire form of a preference profile. The unbounded caps
// (+Inf internally) render as null, which encoding/json cannot do for the
// domain struct directly.
type ProfileView struct {
	MinTemperature   float64            `json:"min_temperature"`
	MaxTemperature   float64            `json:"max_temperature"`
	MaxPrecipitation float64            `json:"max_precipitation"`
	MinSunshineHours float64            `json:"min_sunshine_hours"`
	MinDifficulty    int                `json:"min_difficulty"`
	MaxDifficulty    int                `json:"max_difficulty"`
	MinLength        float64            `json:"min_length"`
	MaxLength        *float64           `json:"max_length"`
	MaxElevationGain *float64           `json:"max_elevation_gain"`
	PreferredRegions []domain.RegionID  `json:"preferred_regions"`
	PreferredTerrain []string           `json:"preferred_terrain_types"`
	PreferredTags    []string           `json:"preferred_tags"`
	Weights          map[string]float64 `json:"weights"`
}

// NewProfileView converts a profile to its wire form.
func NewProfileView(p domain.PreferenceProfile) ProfileView {
	return ProfileView{
		MinTemperature:   p.MinTemperature,
		MaxTemperature:   p.MaxTemperature,
		MaxPrecipitation: p.MaxPrecipitation,
		MinSunshineHours: p.MinSunshineHours,
		MinDifficulty:    p.MinDifficulty,
		MaxDifficulty:    p.MaxDifficulty,
		MinLength:        p.MinLength,
		MaxLength:        finiteOrNil(p.MaxLength),
		MaxElevationGain: finiteOrNil(p.MaxElevationGain),
		PreferredRegions: p.PreferredRegions,
		PreferredTerrain: p.PreferredTerrain,
		PreferredTags:    p.PreferredTags,
		Weights:          p.Weights,
	}
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}
