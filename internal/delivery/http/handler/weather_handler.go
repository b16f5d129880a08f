package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/pkg/errors"
	"github.com/trail-recommender/internal/pkg/utils"
	"github.com/trail-recommender/internal/pkg/validator"
	"github.com/trail-recommender/internal/usecase"
	"github.com/trail-recommender/internal/usecase/dto"
)

// WeatherHandler serves the weather series endpoints.
type WeatherHandler struct {
	weatherUC    *usecase.WeatherUseCase
	catalogUC    *usecase.CatalogUseCase
	provider     repository.ForecastProvider
	forecastDays int
	logger       *zap.Logger
}

func NewWeatherHandler(
	weatherUC *usecase.WeatherUseCase,
	catalogUC *usecase.CatalogUseCase,
	provider repository.ForecastProvider,
	forecastDays int,
	logger *zap.Logger,
) *WeatherHandler {
	return &WeatherHandler{
		weatherUC:    weatherUC,
		catalogUC:    catalogUC,
		provider:     provider,
		forecastDays: forecastDays,
		logger:       logger,
	}
}

// Statistics returns aggregate weather statistics for an optional location
// and date range.
func (h *WeatherHandler) Statistics(c *fiber.Ctx) error {
	location := domain.RegionID(c.Query("location"))

	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		parsed, err := domain.ParseDate(v)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidDateRange)
		}
		start = &parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := domain.ParseDate(v)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidDateRange)
		}
		end = &parsed
	}
	if start != nil && end != nil && end.Before(*start) {
		return utils.SendError(c, errors.ErrInvalidDateRange)
	}

	stats := h.weatherUC.Statistics(c.Context(), location, start, end)

	return utils.SendSuccess(c, dto.WeatherStatsResponse{
		Location: string(location),
		Start:    c.Query("start_date"),
		End:      c.Query("end_date"),
		Stats:    stats,
	}, nil)
}

// Refresh fetches forecasts from the provider and merges them into the
// series. Without an explicit location list every catalog region is
// refreshed. Locations that fail are reported, not fatal, unless all fail.
func (h *WeatherHandler) Refresh(c *fiber.Ctx) error {
	if h.provider == nil {
		return utils.SendError(c, errors.ErrProviderUnavailable)
	}

	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil && err != fiber.ErrUnprocessableEntity {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	days := req.Days
	if days <= 0 {
		days = h.forecastDays
	}

	locations := make([]domain.RegionID, 0, len(req.Locations))
	for _, location := range req.Locations {
		locations = append(locations, domain.RegionID(location))
	}
	if len(locations) == 0 {
		locations = h.catalogUC.Regions()
	}
	if len(locations) == 0 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "no locations to refresh",
		}))
	}

	var fetched []domain.WeatherRecord
	var failed []string
	for _, location := range locations {
		records, err := h.provider.FetchForecast(c.Context(), location, days)
		if err != nil {
			h.logger.Warn("Forecast fetch failed",
				zap.String("location", string(location)),
				zap.Error(err),
			)
			failed = append(failed, string(location))
			continue
		}
		fetched = append(fetched, records...)
	}

	if len(failed) == len(locations) {
		return utils.SendError(c, errors.ErrProviderUnavailable)
	}

	h.weatherUC.Merge(c.Context(), fetched)
	if err := h.weatherUC.Save(c.Context()); err != nil {
		h.logger.Warn("Failed to persist refreshed weather series", zap.Error(err))
	}

	names := make([]string, 0, len(locations))
	for _, location := range locations {
		names = append(names, string(location))
	}

	return utils.SendSuccess(c, dto.RefreshResponse{
		Locations: names,
		Fetched:   len(fetched),
		Failed:    failed,
	}, nil)
}
