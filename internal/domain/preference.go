package domain

import "math"

// Weight keys of a preference profile.
const (
	WeightWeather    = "weather"
	WeightDifficulty = "difficulty"
	WeightLength     = "length"
	WeightElevation  = "elevation"
	WeightTags       = "tags"
)

// weightNames is the closed set of weight keys; updates for other keys are ignored.
var weightNames = []string{WeightWeather, WeightDifficulty, WeightLength, WeightElevation, WeightTags}

// weightEpsilon is the tolerated deviation of the weight sum from 100.
const weightEpsilon = 0.01

// PreferenceProfile holds the user's weather and trail bounds plus the
// weights used for scoring. Weights always sum to 100; any update that
// breaks the invariant triggers a proportional rescale.
type PreferenceProfile struct {
	MinTemperature   float64            `json:"min_temperature"`
	MaxTemperature   float64            `json:"max_temperature"`
	MaxPrecipitation float64            `json:"max_precipitation"`
	MinSunshineHours float64            `json:"min_sunshine_hours"`
	MinDifficulty    int                `json:"min_difficulty"`
	MaxDifficulty    int                `json:"max_difficulty"`
	MinLength        float64            `json:"min_length"`
	MaxLength        float64            `json:"max_length"`
	MaxElevationGain float64            `json:"max_elevation_gain"`
	PreferredRegions []RegionID         `json:"preferred_regions"`
	PreferredTerrain []string           `json:"preferred_terrain_types"`
	PreferredTags    []string           `json:"preferred_tags"`
	Weights          map[string]float64 `json:"weights"`
}

// referenceLongTrailKm anchors the length score when no max length is set.
const referenceLongTrailKm = 50.0

// referenceBigElevationGain anchors the elevation score when no cap is set.
const referenceBigElevationGain = 1500.0

// NewPreferenceProfile returns a profile with the standard defaults:
// 15-25 C, up to 5 mm of rain, 4 h of sun, any trail, weights 40/20/20/10/10.
func NewPreferenceProfile() *PreferenceProfile {
	p := &PreferenceProfile{
		MinTemperature:   15.0,
		MaxTemperature:   25.0,
		MaxPrecipitation: 5.0,
		MinSunshineHours: 4.0,
		MinDifficulty:    1,
		MaxDifficulty:    5,
		MinLength:        0,
		MaxLength:        math.Inf(1),
		MaxElevationGain: math.Inf(1),
		Weights: map[string]float64{
			WeightWeather:    40.0,
			WeightDifficulty: 20.0,
			WeightLength:     20.0,
			WeightElevation:  10.0,
			WeightTags:       10.0,
		},
	}
	p.NormalizeWeights()
	return p
}

// NormalizeWeights rescales the weights so they sum to 100 and reports
// whether a rescale was needed. An all-zero weight map is reset to equal
// shares instead of dividing by zero.
func (p *PreferenceProfile) NormalizeWeights() bool {
	var sum float64
	for _, w := range p.Weights {
		sum += w
	}

	if math.Abs(sum-100) <= weightEpsilon {
		return false
	}

	if sum == 0 {
		share := 100.0 / float64(len(weightNames))
		p.Weights = make(map[string]float64, len(weightNames))
		for _, name := range weightNames {
			p.Weights[name] = share
		}
		return true
	}

	factor := 100 / sum
	for name, w := range p.Weights {
		p.Weights[name] = w * factor
	}
	return true
}

// SetWeight updates a single weight and reports whether the key is known.
// Callers must re-normalize after a batch of updates.
func (p *PreferenceProfile) SetWeight(name string, value float64) bool {
	if _, ok := p.Weights[name]; !ok {
		return false
	}
	p.Weights[name] = value
	return true
}

// Bounds projects the profile's hard trail constraints. Preferred tags are
// soft (they only shape the tag sub-score), so they are not included.
func (p *PreferenceProfile) Bounds() TrailBounds {
	return TrailBounds{
		MinDifficulty:    p.MinDifficulty,
		MaxDifficulty:    p.MaxDifficulty,
		MinLength:        p.MinLength,
		MaxLength:        p.MaxLength,
		MaxElevationGain: p.MaxElevationGain,
		PreferredRegions: p.PreferredRegions,
	}
}

// CheckTrailMatch verifies the hard constraints and, when they pass, scores
// the trail on the non-weather criteria. The weighted sum is renormalized by
// the non-weather share of the weights so the result stays on a 0-1 scale
// regardless of how much weight weather itself carries.
func (p *PreferenceProfile) CheckTrailMatch(t Trail) (bool, float64) {
	if t.Difficulty < p.MinDifficulty || t.Difficulty > p.MaxDifficulty {
		return false, 0.0
	}
	if t.LengthKm < p.MinLength || t.LengthKm > p.MaxLength {
		return false, 0.0
	}
	if t.ElevationGain > p.MaxElevationGain {
		return false, 0.0
	}
	if len(p.PreferredRegions) > 0 {
		found := false
		for _, region := range p.PreferredRegions {
			if t.Region == region {
				found = true
				break
			}
		}
		if !found {
			return false, 0.0
		}
	}

	matchingScore := p.difficultyScore(t)*(p.Weights[WeightDifficulty]/100) +
		p.lengthScore(t)*(p.Weights[WeightLength]/100) +
		p.elevationScore(t)*(p.Weights[WeightElevation]/100) +
		p.tagsScore(t)*(p.Weights[WeightTags]/100)

	nonWeatherShare := 1 - p.Weights[WeightWeather]/100
	if nonWeatherShare <= 0 {
		// Weather carries the entire weight: there is no non-weather match
		// quality to measure.
		return true, 0.0
	}

	return true, matchingScore / nonWeatherShare
}

func (p *PreferenceProfile) difficultyScore(t Trail) float64 {
	preferred := (float64(p.MinDifficulty) + float64(p.MaxDifficulty)) / 2
	difficultyRange := float64(p.MaxDifficulty - p.MinDifficulty)

	if difficultyRange == 0 {
		if float64(t.Difficulty) == preferred {
			return 1.0
		}
		return 0.0
	}

	distance := math.Abs(float64(t.Difficulty) - preferred)
	return max(0, 1-distance/(difficultyRange/2))
}

func (p *PreferenceProfile) lengthScore(t Trail) float64 {
	if math.IsInf(p.MaxLength, 1) {
		// No cap set: shorter trails score better against a 50 km reference.
		return max(0, 1-t.LengthKm/referenceLongTrailKm)
	}

	preferred := (p.MinLength + p.MaxLength) / 2
	lengthRange := p.MaxLength - p.MinLength

	if lengthRange == 0 {
		if t.LengthKm == preferred {
			return 1.0
		}
		return 0.0
	}

	distance := math.Abs(t.LengthKm - preferred)
	return max(0, 1-distance/(lengthRange/2))
}

func (p *PreferenceProfile) elevationScore(t Trail) float64 {
	if math.IsInf(p.MaxElevationGain, 1) {
		return max(0, 1-t.ElevationGain/referenceBigElevationGain)
	}
	if p.MaxElevationGain <= 0 {
		// Hard constraint already rejected any positive gain.
		if t.ElevationGain == 0 {
			return 1.0
		}
		return 0.0
	}

	// Lower gain always scores better: a monotonic penalty, not a midpoint match.
	return max(0, 1-t.ElevationGain/p.MaxElevationGain)
}

func (p *PreferenceProfile) tagsScore(t Trail) float64 {
	if len(p.PreferredTags) == 0 {
		return 1.0
	}

	matching := 0
	for _, preferred := range p.PreferredTags {
		for _, tag := range t.Tags {
			if tag == preferred {
				matching++
				break
			}
		}
	}

	return float64(matching) / float64(len(p.PreferredTags))
}

// WeatherMatch scores a single record against the weather preferences as the
// unweighted mean of the temperature, precipitation and sunshine sub-scores.
// The hard constraint requires the average temperature in range and the
// precipitation below the cap.
func (p *PreferenceProfile) WeatherMatch(r WeatherRecord) (bool, float64) {
	score := (p.temperatureScore(r) + p.precipitationScore(r) + p.sunshineScore(r)) / 3

	meets := r.AvgTemp >= p.MinTemperature && r.AvgTemp <= p.MaxTemperature &&
		r.Precipitation <= p.MaxPrecipitation

	return meets, score
}

func (p *PreferenceProfile) temperatureScore(r WeatherRecord) float64 {
	preferred := (p.MinTemperature + p.MaxTemperature) / 2
	tempRange := p.MaxTemperature - p.MinTemperature

	if tempRange == 0 {
		if r.AvgTemp == preferred {
			return 1.0
		}
		return 0.0
	}

	distance := math.Abs(r.AvgTemp - preferred)
	return max(0, 1-distance/(tempRange/2))
}

func (p *PreferenceProfile) precipitationScore(r WeatherRecord) float64 {
	if p.MaxPrecipitation == 0 {
		if r.Precipitation == 0 {
			return 1.0
		}
		return 0.0
	}

	return max(0, 1-r.Precipitation/p.MaxPrecipitation)
}

func (p *PreferenceProfile) sunshineScore(r WeatherRecord) float64 {
	if r.SunshineHours >= p.MinSunshineHours {
		return 1.0
	}
	return max(0, r.SunshineHours/p.MinSunshineHours)
}

// OverallMatch combines the trail and weather matches. Either hard-constraint
// failure zeroes the result; otherwise the two scores blend by the weather
// weight.
func (p *PreferenceProfile) OverallMatch(t Trail, r WeatherRecord) (bool, float64) {
	trailOK, trailScore := p.CheckTrailMatch(t)
	if !trailOK {
		return false, 0.0
	}

	weatherOK, weatherScore := p.WeatherMatch(r)
	if !weatherOK {
		return false, 0.0
	}

	weatherShare := p.Weights[WeightWeather] / 100
	return true, trailScore*(1-weatherShare) + weatherScore*weatherShare
}
