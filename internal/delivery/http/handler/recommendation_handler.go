package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/pkg/errors"
	"github.com/trail-recommender/internal/pkg/utils"
	"github.com/trail-recommender/internal/pkg/validator"
	"github.com/trail-recommender/internal/usecase"
	"github.com/trail-recommender/internal/usecase/dto"
)

// defaultRecommendationLimit applies when a recommend request omits a limit.
const defaultRecommendationLimit = 5

// RecommendationHandler serves the recommendation endpoints.
type RecommendationHandler struct {
	recommendUC *usecase.RecommendationUseCase
	exportUC    *usecase.ExportUseCase
	logger      *zap.Logger
}

func NewRecommendationHandler(
	recommendUC *usecase.RecommendationUseCase,
	exportUC *usecase.ExportUseCase,
	logger *zap.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendUC: recommendUC,
		exportUC:    exportUC,
		logger:      logger,
	}
}

// Recommend returns ranked trails for a date window.
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start, end, err := req.DateWindow()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidDateRange)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	strategy := h.recommendUC.ResolveStrategy(legacyPrefs(req.WeatherPreferences))
	recommendations := h.recommendUC.RecommendRoutes(
		c.Context(), start, end, strategy, trailFilter(req.TrailParams), limit,
	)

	return utils.SendSuccess(c, dto.RecommendResponse{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Strategy:        strategyName(strategy),
		Recommendations: recommendations,
		Total:           len(recommendations),
	}, &utils.Meta{Total: len(recommendations)})
}

// Weekly returns per-day top recommendations for seven days.
func (h *RecommendationHandler) Weekly(c *fiber.Ctx) error {
	var req dto.WeeklyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	var start *time.Time
	if req.StartDate != "" {
		parsed, err := domain.ParseDate(req.StartDate)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidDateRange)
		}
		start = &parsed
	}

	strategy := h.recommendUC.ResolveStrategy(legacyPrefs(req.WeatherPreferences))
	days := h.recommendUC.GenerateWeeklyRecommendation(
		c.Context(), start, strategy, trailFilter(req.TrailParams),
	)

	startDate := req.StartDate
	if startDate == "" {
		startDate = domain.FormatDate(domain.Today())
	}

	return utils.SendSuccess(c, dto.WeeklyResponse{
		StartDate: startDate,
		Days:      days,
	}, nil)
}

// Export recomputes a recommendation set and writes it to the export
// directory.
func (h *RecommendationHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidDateRange)
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidDateRange)
	}

	strategy := h.recommendUC.ResolveStrategy(legacyPrefs(req.WeatherPreferences))
	recommendations := h.recommendUC.RecommendRoutes(
		c.Context(), start, end, strategy, trailFilter(req.TrailParams), limitOrAll(req.Limit),
	)

	path, err := h.exportUC.Export(recommendations, req.Format, req.Filename)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ExportResponse{
		Path:   path,
		Format: req.Format,
		Count:  len(recommendations),
	}, nil)
}

func legacyPrefs(prefs *dto.WeatherPreferences) *domain.LegacyWeatherPreferences {
	if prefs == nil {
		return nil
	}
	legacy := prefs.ToLegacy()
	return &legacy
}

func trailFilter(params *dto.TrailParams) *domain.TrailFilter {
	if params == nil {
		return nil
	}
	filter := params.ToFilter()
	return &filter
}

// limitOrAll maps an omitted limit to the unlimited sentinel; exports default
// to the full result set.
func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func strategyName(strategy domain.ScoringStrategy) string {
	switch strategy.(type) {
	case domain.ProfileScoring:
		return "profile"
	case domain.LegacyScoring:
		return "legacy"
	default:
		return "neutral"
	}
}
