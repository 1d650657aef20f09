package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/utils"
)

// ChallengeHandler wires monthly challenge management endpoints.
type ChallengeHandler struct {
	challenges service.ChallengeService
	tasks      service.TaskService
	badges     service.BadgeService
	logger     zerolog.Logger
}

// NewChallengeHandler constructs the handler.
func NewChallengeHandler(challenges service.ChallengeService, tasks service.TaskService, badges service.BadgeService, logger zerolog.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		challenges: challenges,
		tasks:      tasks,
		badges:     badges,
		logger:     logger.With().Str("component", "challenge_handler").Logger(),
	}
}

// RegisterPublic attaches the read endpoints open to authenticated users.
func (h *ChallengeHandler) RegisterPublic(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id<int>", h.get)
	router.Get("/:id<int>/tasks", h.listTasks)
}

// RegisterStaff attaches the management endpoints behind the staff guard.
func (h *ChallengeHandler) RegisterStaff(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/available-for-badge", h.availableForBadge)
	router.Patch("/:id<int>/active", h.setActive)
	router.Post("/:id<int>/publish", h.publish)
	router.Post("/:id<int>/badge", h.createBadge)
}

func (h *ChallengeHandler) create(c *fiber.Ctx) error {
	var payload dto.ChallengeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	challenge, err := h.challenges.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create challenge")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create challenge")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "challenge created", challenge)
}

func (h *ChallengeHandler) list(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	var month *int
	if value, err := parseQueryInt(c, "month"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	} else if value != 0 {
		month = &value
	}

	challenges, err := h.challenges.List(c.Context(), dto.ChallengeFilter{Year: year, Month: month})
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list challenges")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list challenges")
	}

	return utils.SendSuccess(c, "challenges retrieved", challenges)
}

func (h *ChallengeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	challenge, err := h.challenges.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to get challenge")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get challenge")
	}

	return utils.SendSuccess(c, "challenge retrieved", challenge)
}

func (h *ChallengeHandler) listTasks(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	tasks, err := h.tasks.ListByChallenge(c.Context(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to list tasks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *ChallengeHandler) setActive(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&payload); err != nil || payload.IsActive == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "is_active is required")
	}

	challenge, err := h.challenges.SetActive(c.Context(), id, *payload.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to update challenge")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update challenge")
	}

	return utils.SendSuccess(c, "challenge updated", challenge)
}

func (h *ChallengeHandler) publish(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	challenge, err := h.badges.PublishChallenge(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		case errors.Is(err, service.ErrBadgeRequired):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to publish challenge")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to publish challenge")
		}
	}

	return utils.SendSuccess(c, "challenge published", challenge)
}

func (h *ChallengeHandler) createBadge(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BadgeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	badge, err := h.badges.CreateBadge(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		case errors.Is(err, service.ErrDuplicateBadge):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("challenge_id", id).Msg("failed to create badge")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create badge")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "badge created", badge)
}

func (h *ChallengeHandler) availableForBadge(c *fiber.Ctx) error {
	challenges, err := h.badges.AvailableChallenges(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list badge-less challenges")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list challenges")
	}

	return utils.SendSuccess(c, "challenges retrieved", challenges)
}
