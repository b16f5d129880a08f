package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/pkg/errors"
)

const (
	weatherStatsCachePrefix = "weather:stats:"

	// Defaults for day classification, matching the comfort model's
	// notion of a usable hiking day.
	defaultSunnyMinSunshine = 5.0
	defaultSunnyMaxCloud    = 30
	defaultRainyMinPrecip   = 1.0
)

// WeatherUseCase owns the in-memory weather series and computes aggregate
// statistics over it. Statistics are cached in Redis when a cache is wired;
// cache failures degrade to recomputation and are never surfaced.
type WeatherUseCase struct {
	repo     repository.WeatherRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	records []domain.WeatherRecord
}

func NewWeatherUseCase(
	repo repository.WeatherRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *WeatherUseCase {
	return &WeatherUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Load replaces the series with the repository contents. On error the
// previous series stays installed.
func (uc *WeatherUseCase) Load(ctx context.Context) error {
	records, err := uc.repo.LoadAll(ctx)
	if err != nil {
		return errors.ErrLoadFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	uc.mu.Lock()
	uc.records = records
	uc.mu.Unlock()

	uc.invalidateStats(ctx)
	uc.logger.Info("Weather series loaded", zap.Int("count", len(records)))
	return nil
}

// Save persists the current series through the repository.
func (uc *WeatherUseCase) Save(ctx context.Context) error {
	return uc.repo.SaveAll(ctx, uc.Records())
}

// Records returns a snapshot of the full series.
func (uc *WeatherUseCase) Records() []domain.WeatherRecord {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	snapshot := make([]domain.WeatherRecord, len(uc.records))
	copy(snapshot, uc.records)
	return snapshot
}

func (uc *WeatherUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.records)
}

// Merge upserts records into the series keyed by (location, date) and
// invalidates cached statistics. Used after forecast refreshes.
func (uc *WeatherUseCase) Merge(ctx context.Context, incoming []domain.WeatherRecord) {
	if len(incoming) == 0 {
		return
	}

	uc.mu.Lock()
	index := make(map[string]int, len(uc.records))
	for i, record := range uc.records {
		index[mergeKey(record)] = i
	}
	added := 0
	for _, record := range incoming {
		if i, ok := index[mergeKey(record)]; ok {
			uc.records[i] = record
			continue
		}
		index[mergeKey(record)] = len(uc.records)
		uc.records = append(uc.records, record)
		added++
	}
	total := len(uc.records)
	uc.mu.Unlock()

	uc.invalidateStats(ctx)
	uc.logger.Info("Weather series merged",
		zap.Int("incoming", len(incoming)),
		zap.Int("added", added),
		zap.Int("total", total),
	)
}

func mergeKey(record domain.WeatherRecord) string {
	return string(record.LocationID) + "|" + domain.FormatDate(record.Date)
}

// FilterByLocation keeps records for the given location. An empty location
// keeps everything.
func FilterByLocation(records []domain.WeatherRecord, location domain.RegionID) []domain.WeatherRecord {
	if location == "" {
		return records
	}
	filtered := make([]domain.WeatherRecord, 0, len(records))
	for _, record := range records {
		if record.LocationID == location {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FilterByDateRange keeps records with date in [start, end]. Nil bounds are
// open.
func FilterByDateRange(records []domain.WeatherRecord, start, end *time.Time) []domain.WeatherRecord {
	if start == nil && end == nil {
		return records
	}
	filtered := make([]domain.WeatherRecord, 0, len(records))
	for _, record := range records {
		if start != nil && record.Date.Before(*start) {
			continue
		}
		if end != nil && record.Date.After(*end) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// FilterRecords applies location and date filters cumulatively.
func FilterRecords(records []domain.WeatherRecord, location domain.RegionID, start, end *time.Time) []domain.WeatherRecord {
	return FilterByDateRange(FilterByLocation(records, location), start, end)
}

// Statistics computes aggregate weather statistics for the location and date
// range. Every counter re-filters the full subset independently, so a record
// may count as both sunny and rainy. An empty subset yields zero values.
func (uc *WeatherUseCase) Statistics(ctx context.Context, location domain.RegionID, start, end *time.Time) domain.WeatherStats {
	key := statsCacheKey(location, start, end)

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil && data != nil {
			var stats domain.WeatherStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return stats
			}
			uc.logger.Warn("Failed to decode cached weather stats", zap.String("key", key))
		}
	}

	subset := FilterRecords(uc.Records(), location, start, end)
	stats := computeStatistics(subset)

	if uc.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
				uc.logger.Warn("Failed to cache weather stats", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return stats
}

func statsCacheKey(location domain.RegionID, start, end *time.Time) string {
	from, to := "", ""
	if start != nil {
		from = domain.FormatDate(*start)
	}
	if end != nil {
		to = domain.FormatDate(*end)
	}
	return fmt.Sprintf("%s%s:%s:%s", weatherStatsCachePrefix, location, from, to)
}

func computeStatistics(records []domain.WeatherRecord) domain.WeatherStats {
	var stats domain.WeatherStats
	if len(records) == 0 {
		return stats
	}

	params := domain.DefaultComfortParams()
	n := float64(len(records))

	var tempSum, sunshineSum, comfortSum float64
	for _, record := range records {
		tempSum += record.AvgTemp
		sunshineSum += record.SunshineHours
		stats.TotalPrecipitation += record.Precipitation
		comfortSum += record.ComfortIndex(params)
		if record.IsSunnyDay(defaultSunnyMinSunshine, defaultSunnyMaxCloud) {
			stats.SunnyDaysCount++
		}
		if record.IsRainyDay(defaultRainyMinPrecip) {
			stats.RainyDaysCount++
		}
	}

	stats.AvgTemperature = tempSum / n
	stats.AvgSunshineHours = sunshineSum / n
	stats.AvgComfortIndex = comfortSum / n
	return stats
}

// CountSunnyDays counts days with enough sunshine and little cloud cover in
// the filtered subset.
func (uc *WeatherUseCase) CountSunnyDays(location domain.RegionID, start, end *time.Time) int {
	count := 0
	for _, record := range FilterRecords(uc.Records(), location, start, end) {
		if record.IsSunnyDay(defaultSunnyMinSunshine, defaultSunnyMaxCloud) {
			count++
		}
	}
	return count
}

// CountRainyDays counts days with measurable precipitation in the filtered
// subset.
func (uc *WeatherUseCase) CountRainyDays(location domain.RegionID, start, end *time.Time) int {
	count := 0
	for _, record := range FilterRecords(uc.Records(), location, start, end) {
		if record.IsRainyDay(defaultRainyMinPrecip) {
			count++
		}
	}
	return count
}

// AvgComfortIndex returns the mean comfort index over the filtered subset,
// or 0 when the subset is empty.
func (uc *WeatherUseCase) AvgComfortIndex(location domain.RegionID, start, end *time.Time) float64 {
	subset := FilterRecords(uc.Records(), location, start, end)
	if len(subset) == 0 {
		return 0
	}

	params := domain.DefaultComfortParams()
	sum := 0.0
	for _, record := range subset {
		sum += record.ComfortIndex(params)
	}
	return sum / float64(len(subset))
}

// FindBestPeriods slides a periodLength-day window over the location's
// records, keeping only windows of strictly consecutive calendar days whose
// mean comfort reaches minComfort. Results are ordered by comfort descending;
// equal-comfort windows keep ascending date order.
func (uc *WeatherUseCase) FindBestPeriods(location domain.RegionID, periodLength int, minComfort float64) []domain.BestPeriod {
	if periodLength <= 0 {
		return nil
	}

	subset := FilterByLocation(uc.Records(), location)
	if len(subset) < periodLength {
		return nil
	}

	sort.SliceStable(subset, func(i, j int) bool {
		return subset[i].Date.Before(subset[j].Date)
	})

	params := domain.DefaultComfortParams()
	var periods []domain.BestPeriod

	for i := 0; i+periodLength <= len(subset); i++ {
		window := subset[i : i+periodLength]

		consecutive := true
		for j := 1; j < len(window); j++ {
			if !domain.NextDay(window[j-1].Date, window[j].Date) {
				consecutive = false
				break
			}
		}
		if !consecutive {
			continue
		}

		sum := 0.0
		for _, record := range window {
			sum += record.ComfortIndex(params)
		}
		avg := sum / float64(periodLength)
		if avg >= minComfort {
			periods = append(periods, domain.BestPeriod{
				Start:      window[0].Date,
				AvgComfort: avg,
			})
		}
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].AvgComfort > periods[j].AvgComfort
	})
	return periods
}

// Locations returns the sorted unique locations in the series.
func (uc *WeatherUseCase) Locations() []domain.RegionID {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	seen := make(map[domain.RegionID]struct{})
	for _, record := range uc.records {
		seen[record.LocationID] = struct{}{}
	}

	locations := make([]domain.RegionID, 0, len(seen))
	for location := range seen {
		locations = append(locations, location)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i] < locations[j] })
	return locations
}

// DateRange returns the earliest and latest record dates, or ok=false when
// the series is empty.
func (uc *WeatherUseCase) DateRange() (time.Time, time.Time, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if len(uc.records) == 0 {
		return time.Time{}, time.Time{}, false
	}

	earliest := uc.records[0].Date
	latest := uc.records[0].Date
	for _, record := range uc.records[1:] {
		if record.Date.Before(earliest) {
			earliest = record.Date
		}
		if record.Date.After(latest) {
			latest = record.Date
		}
	}
	return earliest, latest, true
}

func (uc *WeatherUseCase) invalidateStats(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPrefix(ctx, weatherStatsCachePrefix); err != nil {
		uc.logger.Warn("Failed to invalidate weather stats cache", zap.Error(err))
	}
}
