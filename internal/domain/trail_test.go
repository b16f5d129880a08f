package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatedHours(t *testing.T) {
	trail := Trail{
		LengthKm:      10,
		Difficulty:    2,
		ElevationGain: 300,
		TerrainType:   "mountain",
	}

	// (10/3 + 300/100*0.1) * 1.2
	assert.InDelta(t, 4.36, trail.EstimatedHours(), 1e-9)
	assert.Equal(t, "4h 21min", trail.EstimatedTime())
}

func TestEstimatedHours_GrowsWithDifficulty(t *testing.T) {
	base := Trail{LengthKm: 12, ElevationGain: 400, TerrainType: "forest"}

	previous := 0.0
	for difficulty := 1; difficulty <= 5; difficulty++ {
		trail := base
		trail.Difficulty = difficulty
		hours := trail.EstimatedHours()
		assert.Greater(t, hours, previous, "difficulty %d", difficulty)
		previous = hours
	}
}

func TestTerrainSpeed(t *testing.T) {
	tests := []struct {
		terrain string
		speed   float64
	}{
		{"flat", 4.0},
		{"mountain", 3.0},
		{"MOUNTAIN", 3.0},
		{"lakeside", 4.5},
		{"glacier", 3.5}, // unknown falls back to the default
		{"", 3.5},
	}

	for _, tt := range tests {
		trail := Trail{TerrainType: tt.terrain}
		assert.Equal(t, tt.speed, trail.TerrainSpeed(), "terrain %q", tt.terrain)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0.5, "30min"},
		{1.0, "1h 0min"},
		{2.75, "2h 45min"},
		{4.36, "4h 21min"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.hours), "hours %.2f", tt.hours)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name  string
		trail Trail
		want  []Category
	}{
		{
			name:  "family",
			trail: Trail{Difficulty: 1, LengthKm: 5, ElevationGain: 100},
			want:  []Category{CategoryFamily},
		},
		{
			name:  "scenic by tag, case-insensitive",
			trail: Trail{Difficulty: 1, LengthKm: 4, ElevationGain: 50, Tags: []string{"Panorama"}},
			want:  []Category{CategoryFamily, CategoryScenic},
		},
		{
			name:  "sport by difficulty",
			trail: Trail{Difficulty: 3, LengthKm: 8, ElevationGain: 200},
			want:  []Category{CategorySport},
		},
		{
			name:  "extreme is also sport",
			trail: Trail{Difficulty: 5, LengthKm: 12, ElevationGain: 1200},
			want:  []Category{CategorySport, CategoryExtreme},
		},
		{
			name:  "no rule matches defaults to scenic",
			trail: Trail{Difficulty: 2, LengthKm: 12, ElevationGain: 400},
			want:  []Category{CategoryScenic},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trail.Categories())
		})
	}
}

func TestHasCategory(t *testing.T) {
	trail := Trail{Difficulty: 1, LengthKm: 5, ElevationGain: 100}

	assert.True(t, trail.HasCategory(CategoryFamily))
	assert.False(t, trail.HasCategory(CategoryExtreme))
}

func TestMatchesBounds(t *testing.T) {
	trail := Trail{
		Region:        "tatry",
		LengthKm:      10,
		ElevationGain: 400,
		Difficulty:    3,
		Tags:          []string{"lake", "forest"},
	}

	bounds := TrailBounds{
		MinDifficulty:    1,
		MaxDifficulty:    5,
		MinLength:        0,
		MaxLength:        20,
		MaxElevationGain: 1000,
	}

	tests := []struct {
		name   string
		adjust func(*TrailBounds)
		want   bool
	}{
		{"all within", func(b *TrailBounds) {}, true},
		{"difficulty too low", func(b *TrailBounds) { b.MinDifficulty = 4 }, false},
		{"length over max", func(b *TrailBounds) { b.MaxLength = 5 }, false},
		{"elevation over cap", func(b *TrailBounds) { b.MaxElevationGain = 300 }, false},
		{"region allowed", func(b *TrailBounds) { b.PreferredRegions = []RegionID{"tatry", "beskidy"} }, true},
		{"region not allowed", func(b *TrailBounds) { b.PreferredRegions = []RegionID{"beskidy"} }, false},
		{"one tag matches", func(b *TrailBounds) { b.PreferredTags = []string{"waterfall", "lake"} }, true},
		{"no tag matches", func(b *TrailBounds) { b.PreferredTags = []string{"waterfall"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bounds
			tt.adjust(&b)
			assert.Equal(t, tt.want, trail.MatchesBounds(b))
		})
	}
}
