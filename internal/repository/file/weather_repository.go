package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
)

var weatherCSVHeader = []string{
	"date", "location_id", "avg_temp", "min_temp", "max_temp",
	"precipitation", "sunshine_hours", "cloud_cover",
}

// weatherRow carries one record with the date in wire form.
type weatherRow struct {
	Date          string  `json:"date"`
	LocationID    string  `json:"location_id"`
	AvgTemp       float64 `json:"avg_temp"`
	MinTemp       float64 `json:"min_temp"`
	MaxTemp       float64 `json:"max_temp"`
	Precipitation float64 `json:"precipitation"`
	SunshineHours float64 `json:"sunshine_hours"`
	CloudCover    int     `json:"cloud_cover"`
}

// weatherDocument is the JSON envelope for a weather collection.
type weatherDocument struct {
	WeatherRecords []weatherRow `json:"weather_records"`
}

func (w weatherRow) toRecord() (domain.WeatherRecord, error) {
	date, err := domain.ParseDate(w.Date)
	if err != nil {
		return domain.WeatherRecord{}, fmt.Errorf("field \"date\": %w", err)
	}

	return domain.WeatherRecord{
		Date:          date,
		LocationID:    domain.RegionID(w.LocationID),
		AvgTemp:       w.AvgTemp,
		MinTemp:       w.MinTemp,
		MaxTemp:       w.MaxTemp,
		Precipitation: w.Precipitation,
		SunshineHours: w.SunshineHours,
		CloudCover:    w.CloudCover,
	}, nil
}

func toWeatherRow(r domain.WeatherRecord) weatherRow {
	return weatherRow{
		Date:          domain.FormatDate(r.Date),
		LocationID:    string(r.LocationID),
		AvgTemp:       r.AvgTemp,
		MinTemp:       r.MinTemp,
		MaxTemp:       r.MaxTemp,
		Precipitation: r.Precipitation,
		SunshineHours: r.SunshineHours,
		CloudCover:    r.CloudCover,
	}
}

type weatherRepository struct {
	path   string
	logger *zap.Logger
}

// NewWeatherRepository reads and writes a weather series at path, choosing
// the format by extension like NewTrailRepository.
func NewWeatherRepository(path string, logger *zap.Logger) repository.WeatherRepository {
	return &weatherRepository{
		path:   path,
		logger: logger,
	}
}

func (r *weatherRepository) LoadAll(ctx context.Context) ([]domain.WeatherRecord, error) {
	r.logger.Info("Loading weather records", zap.String("path", r.path))

	var records []domain.WeatherRecord
	var err error
	if isJSON(r.path) {
		records, err = loadWeatherJSON(r.path)
	} else {
		records, err = loadWeatherCSV(r.path)
	}
	if err != nil {
		r.logger.Error("Failed to load weather records", zap.String("path", r.path), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Weather records loaded", zap.Int("count", len(records)))
	return records, nil
}

func (r *weatherRepository) SaveAll(ctx context.Context, records []domain.WeatherRecord) error {
	r.logger.Info("Saving weather records", zap.String("path", r.path), zap.Int("count", len(records)))

	if isJSON(r.path) {
		return saveWeatherJSON(r.path, records)
	}
	return saveWeatherCSV(r.path, records)
}

func loadWeatherCSV(path string) ([]domain.WeatherRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weather file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read weather csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("weather csv %s: missing header row", path)
	}

	cols, err := headerIndex(rows[0], weatherCSVHeader)
	if err != nil {
		return nil, fmt.Errorf("weather csv %s: %w", path, err)
	}

	records := make([]domain.WeatherRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := parseWeatherCSVRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("weather csv %s row %d: %w", path, i+2, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseWeatherCSVRow(row []string, cols map[string]int) (domain.WeatherRecord, error) {
	get := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(row) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return row[idx], nil
	}

	var wr weatherRow
	var err error

	if wr.Date, err = get("date"); err != nil {
		return domain.WeatherRecord{}, err
	}
	if wr.LocationID, err = get("location_id"); err != nil {
		return domain.WeatherRecord{}, err
	}

	floats := map[string]*float64{
		"avg_temp":       &wr.AvgTemp,
		"min_temp":       &wr.MinTemp,
		"max_temp":       &wr.MaxTemp,
		"precipitation":  &wr.Precipitation,
		"sunshine_hours": &wr.SunshineHours,
	}
	for name, dst := range floats {
		raw, err := get(name)
		if err != nil {
			return domain.WeatherRecord{}, err
		}
		if *dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return domain.WeatherRecord{}, fmt.Errorf("field %q: %w", name, err)
		}
	}

	rawCloud, err := get("cloud_cover")
	if err != nil {
		return domain.WeatherRecord{}, err
	}
	if wr.CloudCover, err = strconv.Atoi(rawCloud); err != nil {
		return domain.WeatherRecord{}, fmt.Errorf("field \"cloud_cover\": %w", err)
	}

	return wr.toRecord()
}

func loadWeatherJSON(path string) ([]domain.WeatherRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open weather file: %w", err)
	}

	var doc weatherDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse weather json %s: %w", path, err)
	}

	records := make([]domain.WeatherRecord, 0, len(doc.WeatherRecords))
	for i, row := range doc.WeatherRecords {
		record, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("weather json %s record %d: %w", path, i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func saveWeatherCSV(path string, records []domain.WeatherRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create weather file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(weatherCSVHeader); err != nil {
		return fmt.Errorf("write weather csv header: %w", err)
	}

	for _, record := range records {
		row := toWeatherRow(record)
		fields := []string{
			row.Date,
			row.LocationID,
			formatFloat(row.AvgTemp),
			formatFloat(row.MinTemp),
			formatFloat(row.MaxTemp),
			formatFloat(row.Precipitation),
			formatFloat(row.SunshineHours),
			strconv.Itoa(row.CloudCover),
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("write weather csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush weather csv: %w", err)
	}
	return nil
}

func saveWeatherJSON(path string, records []domain.WeatherRecord) error {
	doc := weatherDocument{WeatherRecords: make([]weatherRow, 0, len(records))}
	for _, record := range records {
		doc.WeatherRecords = append(doc.WeatherRecords, toWeatherRow(record))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal weather records: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write weather file: %w", err)
	}
	return nil
}
