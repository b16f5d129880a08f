package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
)

type weatherRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewWeatherRepository persists the weather series in the weather_records table.
func NewWeatherRepository(db *DB, logger *zap.Logger) repository.WeatherRepository {
	return &weatherRepository{
		db:     db,
		logger: logger,
	}
}

type weatherRecord struct {
	Date          time.Time `db:"date"`
	LocationID    string    `db:"location_id"`
	AvgTemp       float64   `db:"avg_temp"`
	MinTemp       float64   `db:"min_temp"`
	MaxTemp       float64   `db:"max_temp"`
	Precipitation float64   `db:"precipitation"`
	SunshineHours float64   `db:"sunshine_hours"`
	CloudCover    int       `db:"cloud_cover"`
}

func (r *weatherRepository) LoadAll(ctx context.Context) ([]domain.WeatherRecord, error) {
	query := `
		SELECT date, location_id, avg_temp, min_temp, max_temp,
		       precipitation, sunshine_hours, cloud_cover
		FROM weather_records
		ORDER BY location_id, date
	`

	var rows []weatherRecord
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to load weather records", zap.Error(err))
		return nil, fmt.Errorf("select weather records: %w", err)
	}

	records := make([]domain.WeatherRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.WeatherRecord{
			Date:          row.Date.UTC().Truncate(24 * time.Hour),
			LocationID:    domain.RegionID(row.LocationID),
			AvgTemp:       row.AvgTemp,
			MinTemp:       row.MinTemp,
			MaxTemp:       row.MaxTemp,
			Precipitation: row.Precipitation,
			SunshineHours: row.SunshineHours,
			CloudCover:    row.CloudCover,
		})
	}

	r.logger.Debug("Weather records loaded from database", zap.Int("count", len(records)))
	return records, nil
}

func (r *weatherRepository) SaveAll(ctx context.Context, records []domain.WeatherRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO weather_records (date, location_id, avg_temp, min_temp, max_temp,
		                             precipitation, sunshine_hours, cloud_cover)
		VALUES (:date, :location_id, :avg_temp, :min_temp, :max_temp,
		        :precipitation, :sunshine_hours, :cloud_cover)
		ON CONFLICT (location_id, date) DO UPDATE SET
			avg_temp = EXCLUDED.avg_temp,
			min_temp = EXCLUDED.min_temp,
			max_temp = EXCLUDED.max_temp,
			precipitation = EXCLUDED.precipitation,
			sunshine_hours = EXCLUDED.sunshine_hours,
			cloud_cover = EXCLUDED.cloud_cover
	`

	for _, record := range records {
		row := weatherRecord{
			Date:          record.Date,
			LocationID:    string(record.LocationID),
			AvgTemp:       record.AvgTemp,
			MinTemp:       record.MinTemp,
			MaxTemp:       record.MaxTemp,
			Precipitation: record.Precipitation,
			SunshineHours: record.SunshineHours,
			CloudCover:    record.CloudCover,
		}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			r.logger.Error("Failed to upsert weather record",
				zap.String("location_id", string(record.LocationID)),
				zap.Error(err),
			)
			return fmt.Errorf("upsert weather record %s/%s: %w",
				record.LocationID, domain.FormatDate(record.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weather records: %w", err)
	}

	r.logger.Info("Weather records saved to database", zap.Int("count", len(records)))
	return nil
}
