package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
)

type trailRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTrailRepository persists the trail catalog in the trails table.
func NewTrailRepository(db *DB, logger *zap.Logger) repository.TrailRepository {
	return &trailRepository{
		db:     db,
		logger: logger,
	}
}

// trailRecord mirrors domain.Trail with a pq array for tags.
type trailRecord struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Region        string         `db:"region"`
	StartLat      float64        `db:"start_lat"`
	StartLon      float64        `db:"start_lon"`
	EndLat        float64        `db:"end_lat"`
	EndLon        float64        `db:"end_lon"`
	LengthKm      float64        `db:"length_km"`
	ElevationGain float64        `db:"elevation_gain"`
	Difficulty    int            `db:"difficulty"`
	TerrainType   string         `db:"terrain_type"`
	Tags          pq.StringArray `db:"tags"`
}

func (r *trailRepository) LoadAll(ctx context.Context) ([]domain.Trail, error) {
	query := `
		SELECT id, name, region, start_lat, start_lon, end_lat, end_lon,
		       length_km, elevation_gain, difficulty, terrain_type, tags
		FROM trails
		ORDER BY id
	`

	var rows []trailRecord
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to load trails", zap.Error(err))
		return nil, fmt.Errorf("select trails: %w", err)
	}

	trails := make([]domain.Trail, 0, len(rows))
	for _, row := range rows {
		trails = append(trails, domain.Trail{
			ID:            row.ID,
			Name:          row.Name,
			Region:        domain.RegionID(row.Region),
			StartLat:      row.StartLat,
			StartLon:      row.StartLon,
			EndLat:        row.EndLat,
			EndLon:        row.EndLon,
			LengthKm:      row.LengthKm,
			ElevationGain: row.ElevationGain,
			Difficulty:    row.Difficulty,
			TerrainType:   row.TerrainType,
			Tags:          []string(row.Tags),
		})
	}

	r.logger.Debug("Trails loaded from database", zap.Int("count", len(trails)))
	return trails, nil
}

func (r *trailRepository) SaveAll(ctx context.Context, trails []domain.Trail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trails (id, name, region, start_lat, start_lon, end_lat, end_lon,
		                    length_km, elevation_gain, difficulty, terrain_type, tags)
		VALUES (:id, :name, :region, :start_lat, :start_lon, :end_lat, :end_lon,
		        :length_km, :elevation_gain, :difficulty, :terrain_type, :tags)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			region = EXCLUDED.region,
			start_lat = EXCLUDED.start_lat,
			start_lon = EXCLUDED.start_lon,
			end_lat = EXCLUDED.end_lat,
			end_lon = EXCLUDED.end_lon,
			length_km = EXCLUDED.length_km,
			elevation_gain = EXCLUDED.elevation_gain,
			difficulty = EXCLUDED.difficulty,
			terrain_type = EXCLUDED.terrain_type,
			tags = EXCLUDED.tags
	`

	for _, t := range trails {
		row := trailRecord{
			ID:            t.ID,
			Name:          t.Name,
			Region:        string(t.Region),
			StartLat:      t.StartLat,
			StartLon:      t.StartLon,
			EndLat:        t.EndLat,
			EndLon:        t.EndLon,
			LengthKm:      t.LengthKm,
			ElevationGain: t.ElevationGain,
			Difficulty:    t.Difficulty,
			TerrainType:   t.TerrainType,
			Tags:          pq.StringArray(t.Tags),
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			r.logger.Error("Failed to upsert trail", zap.String("trail_id", t.ID), zap.Error(err))
			return fmt.Errorf("upsert trail %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trails: %w", err)
	}

	r.logger.Info("Trails saved to database", zap.Int("count", len(trails)))
	return nil
}
