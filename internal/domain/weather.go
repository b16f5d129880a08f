package domain

import "time"

// WeatherRecord is a single daily weather observation or forecast for a
// location. min <= avg <= max is expected from well-formed sources but not
// enforced here.
type WeatherRecord struct {
	Date          time.Time `json:"date" db:"date"`
	LocationID    RegionID  `json:"location_id" db:"location_id"`
	AvgTemp       float64   `json:"avg_temp" db:"avg_temp"`
	MinTemp       float64   `json:"min_temp" db:"min_temp"`
	MaxTemp       float64   `json:"max_temp" db:"max_temp"`
	Precipitation float64   `json:"precipitation" db:"precipitation"`
	SunshineHours float64   `json:"sunshine_hours" db:"sunshine_hours"`
	CloudCover    int       `json:"cloud_cover" db:"cloud_cover"`
}

// ComfortParams are the thresholds of the comfort index.
type ComfortParams struct {
	OptimalTempMin  float64
	OptimalTempMax  float64
	MaxPrecip       float64
	OptimalSunshine float64
	MaxCloudCover   int
}

// DefaultComfortParams returns the standard comfort thresholds.
func DefaultComfortParams() ComfortParams {
	return ComfortParams{
		OptimalTempMin:  18,
		OptimalTempMax:  25,
		MaxPrecip:       0,
		OptimalSunshine: 8,
		MaxCloudCover:   20,
	}
}

// Comfort component weights. They sum to 100.
const (
	comfortTempWeight     = 40.0
	comfortPrecipWeight   = 30.0
	comfortSunshineWeight = 20.0
	comfortCloudWeight    = 10.0
)

// IsSunnyDay reports whether the record qualifies as sunny.
func (r WeatherRecord) IsSunnyDay(minSunshineHours float64, maxCloudCover int) bool {
	return r.SunshineHours >= minSunshineHours && r.CloudCover <= maxCloudCover
}

// IsRainyDay reports whether the record qualifies as rainy.
func (r WeatherRecord) IsRainyDay(minPrecipitation float64) bool {
	return r.Precipitation >= minPrecipitation
}

// ComfortIndex scores the record on a 0-100 scale as a weighted sum of
// temperature (40), precipitation (30), sunshine (20) and cloud cover (10)
// components.
func (r WeatherRecord) ComfortIndex(p ComfortParams) float64 {
	var tempScore float64
	if r.AvgTemp >= p.OptimalTempMin && r.AvgTemp <= p.OptimalTempMax {
		tempScore = 100
	} else {
		distance := r.AvgTemp - p.OptimalTempMax
		if r.AvgTemp < p.OptimalTempMin {
			distance = p.OptimalTempMin - r.AvgTemp
		}
		tempScore = max(0, 100-5*distance)
	}

	var precipScore float64
	if r.Precipitation <= p.MaxPrecip {
		precipScore = 100
	} else {
		precipScore = max(0, 100-10*(r.Precipitation-p.MaxPrecip))
	}

	var sunshineScore float64
	if r.SunshineHours >= p.OptimalSunshine {
		sunshineScore = 100
	} else {
		sunshineScore = r.SunshineHours / p.OptimalSunshine * 100
	}

	var cloudScore float64
	if r.CloudCover <= p.MaxCloudCover {
		cloudScore = 100
	} else {
		over := float64(r.CloudCover - p.MaxCloudCover)
		cloudScore = max(0, 100-over*(100/float64(100-p.MaxCloudCover)))
	}

	return tempScore*comfortTempWeight/100 +
		precipScore*comfortPrecipWeight/100 +
		sunshineScore*comfortSunshineWeight/100 +
		cloudScore*comfortCloudWeight/100
}

// WeatherStats aggregates a subset of records. All fields default to zero
// when the subset is empty.
type WeatherStats struct {
	AvgTemperature     float64 `json:"avg_temperature"`
	TotalPrecipitation float64 `json:"total_precipitation"`
	AvgSunshineHours   float64 `json:"avg_sunshine_hours"`
	SunnyDaysCount     int     `json:"sunny_days_count"`
	RainyDaysCount     int     `json:"rainy_days_count"`
	AvgComfortIndex    float64 `json:"avg_comfort_index"`
}

// BestPeriod is a run of calendar-consecutive days whose mean comfort index
// clears a threshold.
type BestPeriod struct {
	Start      time.Time `json:"start_date"`
	AvgComfort float64   `json:"avg_comfort_index"`
}
