package file

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
)

var exportCSVHeader = []string{
	"name", "region", "length_km", "difficulty", "elevation_gain",
	"categories", "estimated_time", "weather_comfort_index",
	"preference_match_score", "total_score",
}

// exportRow is the fixed export schema for one recommendation.
type exportRow struct {
	Name                 string  `json:"name"`
	Region               string  `json:"region"`
	LengthKm             float64 `json:"length_km"`
	Difficulty           int     `json:"difficulty"`
	ElevationGain        float64 `json:"elevation_gain"`
	Categories           string  `json:"categories"`
	EstimatedTime        string  `json:"estimated_time"`
	WeatherComfortIndex  float64 `json:"weather_comfort_index"`
	PreferenceMatchScore float64 `json:"preference_match_score"`
	TotalScore           float64 `json:"total_score"`
}

func toExportRow(rec domain.Recommendation) exportRow {
	names := make([]string, 0, len(rec.Categories))
	for _, c := range rec.Categories {
		names = append(names, string(c))
	}

	comfort := rec.WeatherComfortIndex
	if comfort == 0 {
		comfort = rec.WeatherScore
	}

	return exportRow{
		Name:                 rec.Name,
		Region:               string(rec.Region),
		LengthKm:             rec.LengthKm,
		Difficulty:           rec.Difficulty,
		ElevationGain:        rec.ElevationGain,
		Categories:           strings.Join(names, ";"),
		EstimatedTime:        rec.EstimatedTime,
		WeatherComfortIndex:  comfort,
		PreferenceMatchScore: rec.PreferenceMatchScore,
		TotalScore:           rec.TotalScore,
	}
}

// ExportWriter serializes recommendation result sets. Unlike the best-effort
// recommendation calls, a failed write is always surfaced.
type ExportWriter struct {
	logger *zap.Logger
}

func NewExportWriter(logger *zap.Logger) *ExportWriter {
	return &ExportWriter{logger: logger}
}

func (w *ExportWriter) WriteCSV(path string, recs []domain.Recommendation) error {
	w.logger.Info("Exporting recommendations to CSV",
		zap.String("path", path),
		zap.Int("count", len(recs)),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(exportCSVHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, rec := range recs {
		row := toExportRow(rec)
		fields := []string{
			row.Name,
			row.Region,
			formatFloat(row.LengthKm),
			strconv.Itoa(row.Difficulty),
			formatFloat(row.ElevationGain),
			row.Categories,
			row.EstimatedTime,
			formatFloat(row.WeatherComfortIndex),
			formatFloat(row.PreferenceMatchScore),
			formatFloat(row.TotalScore),
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

func (w *ExportWriter) WriteJSON(path string, recs []domain.Recommendation) error {
	w.logger.Info("Exporting recommendations to JSON",
		zap.String("path", path),
		zap.Int("count", len(recs)),
	)

	rows := make([]exportRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, toExportRow(rec))
	}

	data, err := json.MarshalIndent(map[string][]exportRow{"recommendations": rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
