package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/pkg/utils"
	"github.com/trail-recommender/internal/pkg/validator"
	"github.com/trail-recommender/internal/usecase"
	"github.com/trail-recommender/internal/usecase/dto"
)

// TrailHandler serves the catalog endpoints.
type TrailHandler struct {
	catalogUC   *usecase.CatalogUseCase
	recommendUC *usecase.RecommendationUseCase
	logger      *zap.Logger
}

func NewTrailHandler(
	catalogUC *usecase.CatalogUseCase,
	recommendUC *usecase.RecommendationUseCase,
	logger *zap.Logger,
) *TrailHandler {
	return &TrailHandler{
		catalogUC:   catalogUC,
		recommendUC: recommendUC,
		logger:      logger,
	}
}

// List returns the catalog, narrowed by the query filters.
func (h *TrailHandler) List(c *fiber.Ctx) error {
	params, err := queryTrailParams(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	trails := h.catalogUC.Trails()
	if params != nil {
		trails = usecase.FilterByParams(trails, params.ToFilter())
	}

	return utils.SendSuccess(c, dto.TrailListResponse{
		Trails: trails,
		Total:  len(trails),
	}, &utils.Meta{Total: len(trails)})
}

// Meta summarizes the catalog for building filter UIs.
func (h *TrailHandler) Meta(c *fiber.Ctx) error {
	minLength, maxLength := h.catalogUC.LengthRange()

	return utils.SendSuccess(c, dto.CatalogMetaResponse{
		Regions:          h.catalogUC.Regions(),
		DifficultyLevels: h.catalogUC.DifficultyLevels(),
		TerrainTypes:     h.catalogUC.TerrainTypes(),
		MinLengthKm:      minLength,
		MaxLengthKm:      maxLength,
		Total:            h.catalogUC.Count(),
	}, nil)
}

// Statistics returns the combined per-trail report.
func (h *TrailHandler) Statistics(c *fiber.Ctx) error {
	trail, err := h.catalogUC.FindByID(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, h.recommendUC.GetTrailStatistics(c.Context(), trail), nil)
}

// BestPeriods returns comfortable upcoming multi-day windows for a trail.
func (h *TrailHandler) BestPeriods(c *fiber.Ctx) error {
	trail, err := h.catalogUC.FindByID(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	query := dto.BestPeriodsQuery{
		DaysRange:    c.QueryInt("days_range", 0),
		MinComfort:   c.QueryFloat("min_comfort", 0),
		PeriodLength: c.QueryInt("period_length", 0),
	}
	if err := validator.Validate(&query); err != nil {
		return utils.SendError(c, err)
	}

	periods := h.recommendUC.FindOptimalWeatherPeriods(
		trail, query.DaysRange, query.MinComfort, query.PeriodLength,
	)

	periodLength := query.PeriodLength
	if periodLength <= 0 {
		periodLength = 3
	}
	minComfort := query.MinComfort
	if minComfort <= 0 {
		minComfort = 70
	}

	return utils.SendSuccess(c, dto.BestPeriodsResponse{
		TrailID:      trail.ID,
		PeriodLength: periodLength,
		MinComfort:   minComfort,
		Periods:      dto.NewBestPeriodItems(periods),
	}, &utils.Meta{Total: len(periods)})
}

// queryTrailParams builds filter params from query values, returning nil when
// no filter is active.
func queryTrailParams(c *fiber.Ctx) (*dto.TrailParams, error) {
	params := &dto.TrailParams{}
	active := false

	if v := c.Query("min_length"); v != "" {
		f := c.QueryFloat("min_length")
		params.MinLength = &f
		active = true
	}
	if v := c.Query("max_length"); v != "" {
		f := c.QueryFloat("max_length")
		params.MaxLength = &f
		active = true
	}
	if v := c.Query("min_difficulty"); v != "" {
		n := c.QueryInt("min_difficulty")
		params.MinDifficulty = &n
		active = true
	}
	if v := c.Query("max_difficulty"); v != "" {
		n := c.QueryInt("max_difficulty")
		params.MaxDifficulty = &n
		active = true
	}
	if v := c.Query("difficulty"); v != "" {
		n := c.QueryInt("difficulty")
		params.Difficulty = &n
		active = true
	}
	if v := c.Query("region"); v != "" {
		params.Region = &v
		active = true
	}
	if v := c.Query("categories"); v != "" {
		params.Categories = strings.Split(v, ",")
		active = true
	}

	if !active {
		return nil, nil
	}
	if err := validator.Validate(params); err != nil {
		return nil, err
	}
	return params, nil
}
