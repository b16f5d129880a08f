package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/config"
	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a forecast provider backed by the OpenWeatherMap
// 5-day/3-hour forecast endpoint.
func NewClient(cfg *config.OpenWeatherConfig, logger *zap.Logger) repository.ForecastProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// forecastResponse is the subset of the provider payload we consume.
type forecastResponse struct {
	List []forecastEntry `json:"list"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Rain struct {
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
}

// dailyBucket accumulates 3-hour forecast entries for one calendar day.
type dailyBucket struct {
	tempSum   float64
	minTemp   float64
	maxTemp   float64
	precipSum float64
	cloudSum  float64
	count     int
}

func (c *client) FetchForecast(ctx context.Context, location domain.RegionID, days int) ([]domain.WeatherRecord, error) {
	endpoint := fmt.Sprintf("%s/forecast?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(string(location)), c.apiKey)

	c.logger.Debug("Calling OpenWeatherMap forecast API",
		zap.String("location", string(location)),
		zap.Int("days", days),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("OpenWeatherMap API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("openweathermap API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := aggregateDaily(forecast, location)
	if len(records) > days {
		records = records[:days]
	}

	c.logger.Info("Forecast fetched",
		zap.String("location", string(location)),
		zap.Int("days", len(records)),
	)
	return records, nil
}

// aggregateDaily folds 3-hour forecast entries into one record per calendar
// day. Sunshine hours are estimated from mean cloud cover since the endpoint
// does not report them directly.
func aggregateDaily(forecast forecastResponse, location domain.RegionID) []domain.WeatherRecord {
	entries := make([]forecastEntry, len(forecast.List))
	copy(entries, forecast.List)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Dt < entries[j].Dt })

	buckets := make(map[time.Time]*dailyBucket)
	var order []time.Time

	for _, entry := range entries {
		ts := time.Unix(entry.Dt, 0).UTC()
		day := domain.Date(ts.Year(), ts.Month(), ts.Day())

		bucket, ok := buckets[day]
		if !ok {
			bucket = &dailyBucket{
				minTemp: math.Inf(1),
				maxTemp: math.Inf(-1),
			}
			buckets[day] = bucket
			order = append(order, day)
		}

		bucket.tempSum += entry.Main.Temp
		bucket.minTemp = math.Min(bucket.minTemp, entry.Main.TempMin)
		bucket.maxTemp = math.Max(bucket.maxTemp, entry.Main.TempMax)
		bucket.precipSum += entry.Rain.ThreeHours
		bucket.cloudSum += float64(entry.Clouds.All)
		bucket.count++
	}

	records := make([]domain.WeatherRecord, 0, len(order))
	for _, day := range order {
		bucket := buckets[day]
		if bucket.count == 0 {
			continue
		}

		avgCloud := bucket.cloudSum / float64(bucket.count)
		records = append(records, domain.WeatherRecord{
			Date:          day,
			LocationID:    location,
			AvgTemp:       bucket.tempSum / float64(bucket.count),
			MinTemp:       bucket.minTemp,
			MaxTemp:       bucket.maxTemp,
			Precipitation: bucket.precipSum,
			SunshineHours: 12.0 - avgCloud*0.12,
			CloudCover:    int(avgCloud),
		})
	}

	return records
}
