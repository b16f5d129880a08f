package repository

import (
	"context"

	"github.com/trail-recommender/internal/domain"
)

// TrailRepository supplies and persists the trail catalog. LoadAll either
// returns the complete, fully parsed set or an error: no partial catalogs.
type TrailRepository interface {
	LoadAll(ctx context.Context) ([]domain.Trail, error)
	SaveAll(ctx context.Context, trails []domain.Trail) error
}
