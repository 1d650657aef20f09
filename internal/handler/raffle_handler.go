package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/utils"
)

// RaffleHandler wires yearly raffle endpoints for staff.
type RaffleHandler struct {
	service service.RaffleService
	logger  zerolog.Logger
}

// NewRaffleHandler constructs the handler.
func NewRaffleHandler(service service.RaffleService, logger zerolog.Logger) *RaffleHandler {
	return &RaffleHandler{
		service: service,
		logger:  logger.With().Str("component", "raffle_handler").Logger(),
	}
}

// Register attaches raffle endpoints to the staff router group.
func (h *RaffleHandler) Register(router fiber.Router) {
	router.Get("/:year<int>/eligibility", h.eligibility)
	router.Post("/:year<int>/draw", h.draw)
}

func (h *RaffleHandler) eligibility(c *fiber.Ctx) error {
	year, err := parseIntParam(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	eligibility, err := h.service.Eligibility(c.Context(), year)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Int("year", year).Msg("failed to compute eligibility")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute eligibility")
	}

	return utils.SendSuccess(c, "eligibility computed", eligibility)
}

func (h *RaffleHandler) draw(c *fiber.Ctx) error {
	year, err := parseIntParam(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	var payload dto.RaffleDrawRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	draw, err := h.service.CreateDraw(c.Context(), year, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDrawAlreadyExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoEligibleTeens):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Int("year", year).Msg("failed to record draw")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record draw")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "draw recorded", draw)
}
