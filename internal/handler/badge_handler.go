package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/utils"
)

// BadgeHandler wires the badge purchase endpoint. Badge creation lives on the
// challenge routes since badges are born attached to a challenge.
type BadgeHandler struct {
	service service.BadgeService
	logger  zerolog.Logger
}

// NewBadgeHandler constructs the handler.
func NewBadgeHandler(service service.BadgeService, logger zerolog.Logger) *BadgeHandler {
	return &BadgeHandler{
		service: service,
		logger:  logger.With().Str("component", "badge_handler").Logger(),
	}
}

// Register attaches badge endpoints to the router group.
func (h *BadgeHandler) Register(router fiber.Router) {
	router.Post("/:id<int>/purchase", h.purchase)
}

func (h *BadgeHandler) purchase(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BadgePurchaseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	badge, err := h.service.PurchaseBadge(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadgeNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "badge not found")
		case errors.Is(err, service.ErrBadgeInactive):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAlreadyPurchased):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("badge_id", id).Msg("failed to purchase badge")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to purchase badge")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "badge purchased", badge)
}
