package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComfortIndex_OptimalDay(t *testing.T) {
	record := WeatherRecord{
		AvgTemp:       20,
		Precipitation: 0,
		SunshineHours: 8,
		CloudCover:    15,
	}

	assert.Equal(t, 100.0, record.ComfortIndex(DefaultComfortParams()))
}

func TestComfortIndex_Components(t *testing.T) {
	optimal := WeatherRecord{AvgTemp: 20, Precipitation: 0, SunshineHours: 8, CloudCover: 15}

	tests := []struct {
		name   string
		adjust func(*WeatherRecord)
		want   float64
	}{
		// temp 30: 5 over the band, component 75, -25 * 0.4
		{"hot day", func(r *WeatherRecord) { r.AvgTemp = 30 }, 90.0},
		// temp 13: 5 under the band, symmetric penalty
		{"cold day", func(r *WeatherRecord) { r.AvgTemp = 13 }, 90.0},
		// 5 mm of rain: component 50, -50 * 0.3
		{"rainy day", func(r *WeatherRecord) { r.Precipitation = 5 }, 85.0},
		// 4 h of sun: component 50, -50 * 0.2
		{"dim day", func(r *WeatherRecord) { r.SunshineHours = 4 }, 90.0},
		// cloud 60: 40 over the cap at 1.25/point, component 50, -50 * 0.1
		{"overcast day", func(r *WeatherRecord) { r.CloudCover = 60 }, 95.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := optimal
			tt.adjust(&record)
			assert.InDelta(t, tt.want, record.ComfortIndex(DefaultComfortParams()), 1e-9)
		})
	}
}

func TestComfortIndex_StaysInRange(t *testing.T) {
	awful := WeatherRecord{
		AvgTemp:       -30,
		Precipitation: 80,
		SunshineHours: 0,
		CloudCover:    100,
	}

	index := awful.ComfortIndex(DefaultComfortParams())
	assert.GreaterOrEqual(t, index, 0.0)
	assert.LessOrEqual(t, index, 100.0)
}

func TestDayClassification(t *testing.T) {
	sunny := WeatherRecord{SunshineHours: 9, CloudCover: 10}
	cloudy := WeatherRecord{SunshineHours: 9, CloudCover: 70}
	rainy := WeatherRecord{Precipitation: 3.5}
	dry := WeatherRecord{Precipitation: 0.4}

	assert.True(t, sunny.IsSunnyDay(5, 30))
	assert.False(t, cloudy.IsSunnyDay(5, 30))
	assert.True(t, rainy.IsRainyDay(1.0))
	assert.False(t, dry.IsRainyDay(1.0))
}
