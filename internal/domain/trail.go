package domain

import (
	"fmt"
	"strings"
)

// Trail is a single catalog entry. Records are immutable after loading;
// filters operate on slices of them and never mutate fields.
type Trail struct {
	ID            string   `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Region        RegionID `json:"region" db:"region"`
	StartLat      float64  `json:"start_lat" db:"start_lat"`
	StartLon      float64  `json:"start_lon" db:"start_lon"`
	EndLat        float64  `json:"end_lat" db:"end_lat"`
	EndLon        float64  `json:"end_lon" db:"end_lon"`
	LengthKm      float64  `json:"length_km" db:"length_km"`
	ElevationGain float64  `json:"elevation_gain" db:"elevation_gain"`
	Difficulty    int      `json:"difficulty" db:"difficulty"`
	TerrainType   string   `json:"terrain_type" db:"terrain_type"`
	Tags          []string `json:"tags" db:"-"`
}

// Category is a derived trail classification. A trail may belong to several.
type Category string

const (
	CategoryFamily  Category = "family"
	CategoryScenic  Category = "scenic"
	CategorySport   Category = "sport"
	CategoryExtreme Category = "extreme"
)

// terrainSpeeds maps lower-cased terrain types to average hiking speed in km/h.
var terrainSpeeds = map[string]float64{
	"flat":     4.0,
	"mountain": 3.0,
	"lakeside": 4.5,
	"forest":   3.5,
	"urban":    5.0,
	"hill":     3.2,
	"coast":    4.0,
	"meadow":   4.5,
	"rocky":    2.5,
	"desert":   3.0,
	"wetland":  2.5,
	"canyon":   2.0,
}

const defaultTerrainSpeed = 3.5

var difficultyMultipliers = map[int]float64{
	1: 1.0,
	2: 1.2,
	3: 1.4,
	4: 1.6,
	5: 1.8,
}

var scenicTags = map[string]struct{}{
	"view":      {},
	"panorama":  {},
	"landscape": {},
	"mountain":  {},
	"lake":      {},
	"forest":    {},
	"waterfall": {},
	"viewpoint": {},
	"widokowa":  {},
}

// TerrainSpeed returns the average hiking speed for the trail's terrain.
func (t Trail) TerrainSpeed() float64 {
	if speed, ok := terrainSpeeds[strings.ToLower(t.TerrainType)]; ok {
		return speed
	}
	return defaultTerrainSpeed
}

// EstimatedHours estimates the completion time in hours from length, elevation
// gain (each 100 m of gain adds 0.1 h) and a difficulty multiplier.
func (t Trail) EstimatedHours() float64 {
	multiplier, ok := difficultyMultipliers[t.Difficulty]
	if !ok {
		multiplier = 1.0
	}

	base := t.LengthKm/t.TerrainSpeed() + t.ElevationGain/100*0.1
	return base * multiplier
}

// FormatHours renders a fractional hour count as "Xh Ymin", or "Ymin" when
// the whole-hour part is zero.
func FormatHours(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)

	if h == 0 {
		return fmt.Sprintf("%dmin", m)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}

// EstimatedTime is the display form of EstimatedHours.
func (t Trail) EstimatedTime() string {
	return FormatHours(t.EstimatedHours())
}

// Categories classifies the trail against fixed thresholds. The four rules
// are independent; a trail matching none of them defaults to scenic.
func (t Trail) Categories() []Category {
	var categories []Category

	if t.Difficulty <= 2 && t.LengthKm <= 10 && t.ElevationGain <= 300 {
		categories = append(categories, CategoryFamily)
	}

	for _, tag := range t.Tags {
		if _, ok := scenicTags[strings.ToLower(tag)]; ok {
			categories = append(categories, CategoryScenic)
			break
		}
	}

	if t.LengthKm >= 15 || t.ElevationGain >= 500 || t.Difficulty >= 3 {
		categories = append(categories, CategorySport)
	}

	if t.Difficulty >= 4 && (t.ElevationGain >= 1000 || t.LengthKm >= 25) {
		categories = append(categories, CategoryExtreme)
	}

	if len(categories) == 0 {
		categories = append(categories, CategoryScenic)
	}

	return categories
}

// HasCategory reports whether the trail derives the given category.
func (t Trail) HasCategory(c Category) bool {
	for _, have := range t.Categories() {
		if have == c {
			return true
		}
	}
	return false
}

// TrailBounds are the hard preference constraints a trail must satisfy.
type TrailBounds struct {
	MinDifficulty    int
	MaxDifficulty    int
	MinLength        float64
	MaxLength        float64
	MaxElevationGain float64
	PreferredRegions []RegionID
	PreferredTags    []string
}

// MatchesBounds checks every hard constraint: difficulty and length in range,
// elevation below the cap, region membership when regions are set, and at
// least one preferred tag when tags are set.
func (t Trail) MatchesBounds(b TrailBounds) bool {
	if t.Difficulty < b.MinDifficulty || t.Difficulty > b.MaxDifficulty {
		return false
	}
	if t.LengthKm < b.MinLength || t.LengthKm > b.MaxLength {
		return false
	}
	if t.ElevationGain > b.MaxElevationGain {
		return false
	}

	if len(b.PreferredRegions) > 0 {
		found := false
		for _, region := range b.PreferredRegions {
			if t.Region == region {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(b.PreferredTags) > 0 {
		found := false
		for _, preferred := range b.PreferredTags {
			for _, tag := range t.Tags {
				if tag == preferred {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	return true
}
