package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/utils"
)

// AnalyticsHandler wires aggregation endpoints for staff dashboards.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// RegisterChallengeStats attaches the per-challenge stats endpoint; it lives
// on the challenge routes so staff read stats where they manage the challenge.
func (h *AnalyticsHandler) RegisterChallengeStats(router fiber.Router) {
	router.Get("/:id<int>/stats", h.challengeStats)
}

// RegisterOverview attaches the cross-challenge rollup endpoint.
func (h *AnalyticsHandler) RegisterOverview(router fiber.Router) {
	router.Get("/overview", h.overview)
}

func (h *AnalyticsHandler) challengeStats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	stats, err := h.service.ChallengeStats(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to compute challenge stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute challenge stats")
	}

	return utils.SendSuccess(c, "challenge stats computed", stats)
}

func (h *AnalyticsHandler) overview(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "year")
	if err != nil || year == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "year is required")
	}

	var month *int
	if value, err := parseQueryInt(c, "month"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	} else if value != 0 {
		if value < 1 || value > 12 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
		}
		month = &value
	}

	overview, err := h.service.Overview(c.Context(), year, month)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Int("year", year).Msg("failed to compute overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute overview")
	}

	return utils.SendSuccess(c, "overview computed", overview)
}
