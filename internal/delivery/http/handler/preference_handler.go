package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/pkg/errors"
	"github.com/trail-recommender/internal/pkg/utils"
	"github.com/trail-recommender/internal/pkg/validator"
	"github.com/trail-recommender/internal/usecase"
	"github.com/trail-recommender/internal/usecase/dto"
)

// PreferenceHandler serves the preference profile endpoints.
type PreferenceHandler struct {
	prefsUC *usecase.PreferenceUseCase
	logger  *zap.Logger
}

func NewPreferenceHandler(prefsUC *usecase.PreferenceUseCase, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		prefsUC: prefsUC,
		logger:  logger,
	}
}

// Get returns the current profile and whether it is active.
func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	_, active := h.prefsUC.Profile()

	return utils.SendSuccess(c, dto.PreferenceResponse{
		Profile: dto.NewProfileView(h.prefsUC.Current()),
		Active:  active,
	}, nil)
}

// Update applies a partial profile update by field name. Unknown fields are
// ignored.
func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if len(fields) == 0 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "empty update",
		}))
	}

	profile := h.prefsUC.UpdatePreferences(fields)

	return utils.SendSuccess(c, dto.PreferenceResponse{
		Profile: dto.NewProfileView(profile),
		Active:  true,
	}, nil)
}

// UpdateWeights replaces a batch of scoring weights and re-normalizes them.
func (h *PreferenceHandler) UpdateWeights(c *fiber.Ctx) error {
	var req dto.WeightsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	profile := h.prefsUC.UpdateWeights(req.Weights)

	return utils.SendSuccess(c, dto.PreferenceResponse{
		Profile: dto.NewProfileView(profile),
		Active:  true,
	}, nil)
}

// Clear deactivates the profile and restores the defaults.
func (h *PreferenceHandler) Clear(c *fiber.Ctx) error {
	h.prefsUC.ClearProfile()

	return utils.SendSuccess(c, dto.PreferenceResponse{
		Profile: dto.NewProfileView(h.prefsUC.Current()),
		Active:  false,
	}, nil)
}
