package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/pkg/utils"
)

var trailCSVHeader = []string{
	"id", "name", "region", "start_lat", "start_lon", "end_lat", "end_lon",
	"length_km", "elevation_gain", "difficulty", "terrain_type", "tags",
}

// trailDocument is the JSON envelope for a trail collection.
type trailDocument struct {
	TrailRecords []domain.Trail `json:"trail_records"`
}

type trailRepository struct {
	path   string
	logger *zap.Logger
}

// NewTrailRepository reads and writes a trail catalog at path. The format is
// chosen by extension: .json, anything else is treated as CSV.
func NewTrailRepository(path string, logger *zap.Logger) repository.TrailRepository {
	return &trailRepository{
		path:   path,
		logger: logger,
	}
}

func (r *trailRepository) LoadAll(ctx context.Context) ([]domain.Trail, error) {
	r.logger.Info("Loading trails", zap.String("path", r.path))

	var trails []domain.Trail
	var err error
	if isJSON(r.path) {
		trails, err = loadTrailsJSON(r.path)
	} else {
		trails, err = loadTrailsCSV(r.path)
	}
	if err != nil {
		r.logger.Error("Failed to load trails", zap.String("path", r.path), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Trails loaded", zap.Int("count", len(trails)))
	return trails, nil
}

func (r *trailRepository) SaveAll(ctx context.Context, trails []domain.Trail) error {
	r.logger.Info("Saving trails", zap.String("path", r.path), zap.Int("count", len(trails)))

	if isJSON(r.path) {
		return saveTrailsJSON(r.path, trails)
	}
	return saveTrailsCSV(r.path, trails)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func loadTrailsCSV(path string) ([]domain.Trail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trails file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trails csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("trails csv %s: missing header row", path)
	}

	cols, err := headerIndex(rows[0], trailCSVHeader)
	if err != nil {
		return nil, fmt.Errorf("trails csv %s: %w", path, err)
	}

	trails := make([]domain.Trail, 0, len(rows)-1)
	for i, row := range rows[1:] {
		trail, err := parseTrailRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("trails csv %s row %d: %w", path, i+2, err)
		}
		trails = append(trails, trail)
	}

	return trails, nil
}

func parseTrailRow(row []string, cols map[string]int) (domain.Trail, error) {
	get := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(row) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return row[idx], nil
	}

	var trail domain.Trail
	var err error

	if trail.ID, err = get("id"); err != nil {
		return trail, err
	}
	if trail.Name, err = get("name"); err != nil {
		return trail, err
	}
	region, err := get("region")
	if err != nil {
		return trail, err
	}
	trail.Region = domain.RegionID(region)

	floats := map[string]*float64{
		"start_lat":      &trail.StartLat,
		"start_lon":      &trail.StartLon,
		"end_lat":        &trail.EndLat,
		"end_lon":        &trail.EndLon,
		"length_km":      &trail.LengthKm,
		"elevation_gain": &trail.ElevationGain,
	}
	for name, dst := range floats {
		raw, err := get(name)
		if err != nil {
			return trail, err
		}
		if *dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return trail, fmt.Errorf("field %q: %w", name, err)
		}
	}

	rawDifficulty, err := get("difficulty")
	if err != nil {
		return trail, err
	}
	if trail.Difficulty, err = strconv.Atoi(rawDifficulty); err != nil {
		return trail, fmt.Errorf("field \"difficulty\": %w", err)
	}

	if trail.TerrainType, err = get("terrain_type"); err != nil {
		return trail, err
	}

	rawTags, err := get("tags")
	if err != nil {
		return trail, err
	}
	if rawTags != "" {
		trail.Tags = strings.Split(rawTags, ",")
	}

	return trail, validateTrail(trail)
}

func validateTrail(t domain.Trail) error {
	if t.Difficulty < 1 || t.Difficulty > 5 {
		return fmt.Errorf("trail %s: difficulty %d outside 1-5", t.ID, t.Difficulty)
	}
	if t.LengthKm <= 0 {
		return fmt.Errorf("trail %s: non-positive length %.2f", t.ID, t.LengthKm)
	}
	if !utils.ValidateCoordinates(t.StartLat, t.StartLon) {
		return fmt.Errorf("trail %s: start coordinates (%.4f, %.4f) out of range", t.ID, t.StartLat, t.StartLon)
	}
	if !utils.ValidateCoordinates(t.EndLat, t.EndLon) {
		return fmt.Errorf("trail %s: end coordinates (%.4f, %.4f) out of range", t.ID, t.EndLat, t.EndLon)
	}
	return nil
}

func loadTrailsJSON(path string) ([]domain.Trail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open trails file: %w", err)
	}

	var doc trailDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse trails json %s: %w", path, err)
	}

	for _, trail := range doc.TrailRecords {
		if err := validateTrail(trail); err != nil {
			return nil, fmt.Errorf("trails json %s: %w", path, err)
		}
	}

	return doc.TrailRecords, nil
}

func saveTrailsCSV(path string, trails []domain.Trail) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trails file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(trailCSVHeader); err != nil {
		return fmt.Errorf("write trails csv header: %w", err)
	}

	for _, t := range trails {
		row := []string{
			t.ID,
			t.Name,
			string(t.Region),
			formatFloat(t.StartLat),
			formatFloat(t.StartLon),
			formatFloat(t.EndLat),
			formatFloat(t.EndLon),
			formatFloat(t.LengthKm),
			formatFloat(t.ElevationGain),
			strconv.Itoa(t.Difficulty),
			t.TerrainType,
			strings.Join(t.Tags, ","),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write trails csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush trails csv: %w", err)
	}
	return nil
}

func saveTrailsJSON(path string, trails []domain.Trail) error {
	doc := trailDocument{TrailRecords: trails}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trails: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trails file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// headerIndex maps required column names to their positions in the header row.
func headerIndex(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}
