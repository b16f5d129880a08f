package usecase

import (
	"sync"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
)

// PreferenceUseCase owns the active preference profile. The engine starts
// with no active profile; the first update activates the defaults and applies
// on top of them.
type PreferenceUseCase struct {
	logger *zap.Logger

	mu      sync.RWMutex
	profile *domain.PreferenceProfile
	active  bool
}

func NewPreferenceUseCase(logger *zap.Logger) *PreferenceUseCase {
	return &PreferenceUseCase{
		logger:  logger,
		profile: domain.NewPreferenceProfile(),
	}
}

// Profile returns a copy of the active profile, or ok=false when no profile
// has been set.
func (uc *PreferenceUseCase) Profile() (domain.PreferenceProfile, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if !uc.active {
		return domain.PreferenceProfile{}, false
	}
	return uc.snapshot(), true
}

// Current returns a copy of the profile regardless of activation, for
// display of the defaults.
func (uc *PreferenceUseCase) Current() domain.PreferenceProfile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.snapshot()
}

func (uc *PreferenceUseCase) snapshot() domain.PreferenceProfile {
	p := *uc.profile

	p.Weights = make(map[string]float64, len(uc.profile.Weights))
	for name, w := range uc.profile.Weights {
		p.Weights[name] = w
	}
	p.PreferredRegions = append([]domain.RegionID(nil), uc.profile.PreferredRegions...)
	p.PreferredTerrain = append([]string(nil), uc.profile.PreferredTerrain...)
	p.PreferredTags = append([]string(nil), uc.profile.PreferredTags...)
	return p
}

// SetProfile installs a profile as the active one. Weights are normalized on
// the way in.
func (uc *PreferenceUseCase) SetProfile(profile *domain.PreferenceProfile) {
	if profile.NormalizeWeights() {
		uc.logger.Warn("Profile weights rescaled to sum to 100")
	}

	uc.mu.Lock()
	uc.profile = profile
	uc.active = true
	uc.mu.Unlock()

	uc.logger.Info("Preference profile installed")
}

// ClearProfile deactivates the profile and restores the defaults.
func (uc *PreferenceUseCase) ClearProfile() {
	uc.mu.Lock()
	uc.profile = domain.NewPreferenceProfile()
	uc.active = false
	uc.mu.Unlock()

	uc.logger.Info("Preference profile cleared")
}

// UpdatePreferences applies a partial update by field name. Unknown fields
// are logged and ignored; known fields with an unusable value type are
// likewise skipped. The profile becomes active after the first update.
func (uc *PreferenceUseCase) UpdatePreferences(fields map[string]interface{}) domain.PreferenceProfile {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	weightsTouched := false

	for name, value := range fields {
		switch name {
		case "min_temperature":
			if v, ok := asFloat(value); ok {
				uc.profile.MinTemperature = v
				continue
			}
		case "max_temperature":
			if v, ok := asFloat(value); ok {
				uc.profile.MaxTemperature = v
				continue
			}
		case "max_precipitation":
			if v, ok := asFloat(value); ok {
				uc.profile.MaxPrecipitation = v
				continue
			}
		case "min_sunshine_hours":
			if v, ok := asFloat(value); ok {
				uc.profile.MinSunshineHours = v
				continue
			}
		case "min_difficulty":
			if v, ok := asInt(value); ok {
				uc.profile.MinDifficulty = v
				continue
			}
		case "max_difficulty":
			if v, ok := asInt(value); ok {
				uc.profile.MaxDifficulty = v
				continue
			}
		case "min_length":
			if v, ok := asFloat(value); ok {
				uc.profile.MinLength = v
				continue
			}
		case "max_length":
			if v, ok := asFloat(value); ok {
				uc.profile.MaxLength = v
				continue
			}
		case "max_elevation_gain":
			if v, ok := asFloat(value); ok {
				uc.profile.MaxElevationGain = v
				continue
			}
		case "preferred_regions":
			if v, ok := asStringSlice(value); ok {
				regions := make([]domain.RegionID, len(v))
				for i, s := range v {
					regions[i] = domain.RegionID(s)
				}
				uc.profile.PreferredRegions = regions
				continue
			}
		case "preferred_terrain_types":
			if v, ok := asStringSlice(value); ok {
				uc.profile.PreferredTerrain = v
				continue
			}
		case "preferred_tags":
			if v, ok := asStringSlice(value); ok {
				uc.profile.PreferredTags = v
				continue
			}
		case "weights":
			if v, ok := asFloatMap(value); ok {
				for weightName, weight := range v {
					if !uc.profile.SetWeight(weightName, weight) {
						uc.logger.Warn("Ignoring unknown weight", zap.String("name", weightName))
					}
				}
				weightsTouched = true
				continue
			}
		default:
			uc.logger.Warn("Ignoring unknown preference field", zap.String("field", name))
			continue
		}

		uc.logger.Warn("Ignoring preference field with unusable value",
			zap.String("field", name),
			zap.Any("value", value),
		)
	}

	if weightsTouched && uc.profile.NormalizeWeights() {
		uc.logger.Warn("Profile weights rescaled to sum to 100")
	}

	uc.active = true
	return uc.snapshot()
}

// UpdateWeights applies a batch of weight updates and re-normalizes.
// Unknown weight names are logged and ignored.
func (uc *PreferenceUseCase) UpdateWeights(weights map[string]float64) domain.PreferenceProfile {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for name, weight := range weights {
		if !uc.profile.SetWeight(name, weight) {
			uc.logger.Warn("Ignoring unknown weight", zap.String("name", name))
		}
	}

	if uc.profile.NormalizeWeights() {
		uc.logger.Warn("Profile weights rescaled to sum to 100")
	}

	uc.active = true
	return uc.snapshot()
}

// JSON numbers decode as float64, so the coercion helpers accept the types
// encoding/json actually produces.

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asInt(value interface{}) (int, bool) {
	v, ok := asFloat(value)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func asStringSlice(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func asFloatMap(value interface{}) (map[string]float64, bool) {
	switch v := value.(type) {
	case map[string]float64:
		return v, true
	case map[string]interface{}:
		out := make(map[string]float64, len(v))
		for name, item := range v {
			f, ok := asFloat(item)
			if !ok {
				return nil, false
			}
			out[name] = f
		}
		return out, true
	}
	return nil, false
}
