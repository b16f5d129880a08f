package repository

import (
	"context"

	"github.com/trail-recommender/internal/domain"
)

// WeatherRepository supplies and persists the weather series with the same
// all-or-nothing load contract as TrailRepository.
type WeatherRepository interface {
	LoadAll(ctx context.Context) ([]domain.WeatherRecord, error)
	SaveAll(ctx context.Context, records []domain.WeatherRecord) error
}

// ForecastProvider converts an external provider's forecast payload into
// daily weather records for one location.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, location domain.RegionID, days int) ([]domain.WeatherRecord, error)
}
