package domain

// Recommendation is an ephemeral scoring result for one trail over one date
// window. WeatherComfortIndex is set on the profile path, WeatherScore on the
// legacy path; both are zero on the neutral path.
type Recommendation struct {
	TrailID              string     `json:"id"`
	Name                 string     `json:"name"`
	Region               RegionID   `json:"region"`
	LengthKm             float64    `json:"length_km"`
	Difficulty           int        `json:"difficulty"`
	ElevationGain        float64    `json:"elevation_gain"`
	TerrainType          string     `json:"terrain_type"`
	Categories           []Category `json:"categories"`
	EstimatedTime        string     `json:"estimated_time"`
	WeatherComfortIndex  float64    `json:"weather_comfort_index,omitempty"`
	WeatherScore         float64    `json:"weather_score,omitempty"`
	PreferenceMatchScore float64    `json:"preference_match_score,omitempty"`
	TotalScore           float64    `json:"total_score"`
}

// LegacyWeatherPreferences drive the standalone weather-only scoring path
// kept for callers that pass bounds instead of a full preference profile.
type LegacyWeatherPreferences struct {
	MinTemp          float64
	MaxTemp          float64
	MaxPrecipitation float64
	MinSunshineHours float64
	MaxSunshineHours float64
	TempWeight       float64
	PrecipWeight     float64
	SunshineWeight   float64
}

// DefaultLegacyWeatherPreferences mirrors the profile's weather defaults with
// the legacy 40/30/30 component weights.
func DefaultLegacyWeatherPreferences() LegacyWeatherPreferences {
	return LegacyWeatherPreferences{
		MinTemp:          15.0,
		MaxTemp:          25.0,
		MaxPrecipitation: 5.0,
		MinSunshineHours: 4.0,
		MaxSunshineHours: 24.0,
		TempWeight:       40.0,
		PrecipWeight:     30.0,
		SunshineWeight:   30.0,
	}
}

// ScoringStrategy selects how trail scores are computed. Exactly one variant
// applies per scoring call.
type ScoringStrategy interface {
	scoringStrategy()
}

// ProfileScoring blends the profile's trail match with the region's comfort index.
type ProfileScoring struct {
	Profile *PreferenceProfile
}

// LegacyScoring scores by region weather statistics alone.
type LegacyScoring struct {
	Prefs LegacyWeatherPreferences
}

// NeutralScoring assigns every candidate the neutral score of 50.
type NeutralScoring struct{}

func (ProfileScoring) scoringStrategy() {}
func (LegacyScoring) scoringStrategy()  {}
func (NeutralScoring) scoringStrategy() {}

// NeutralScore is assigned when no preference basis exists to rank trails.
const NeutralScore = 50.0

// TrailFilter narrows catalog candidates. Nil fields are inactive. Difficulty
// is a legacy exact-match field used only when the min/max pair is absent.
type TrailFilter struct {
	MinLength     *float64
	MaxLength     *float64
	MinDifficulty *int
	MaxDifficulty *int
	Difficulty    *int
	Region        *RegionID
	Categories    []Category
}
