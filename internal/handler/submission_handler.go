package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/service"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
	"github.com/brightpath-mentorship/console-api/internal/utils"
)

// SubmissionHandler wires submission intake and staff review endpoints.
type SubmissionHandler struct {
	submissions service.SubmissionService
	reviews     service.ReviewService
	logger      zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(submissions service.SubmissionService, reviews service.ReviewService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		reviews:     reviews,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// RegisterPublic attaches the intake endpoint open to authenticated teens.
func (h *SubmissionHandler) RegisterPublic(router fiber.Router) {
	router.Post("/", h.create)
}

// RegisterStaff attaches the read and review endpoints behind the staff guard.
func (h *SubmissionHandler) RegisterStaff(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id<int>", h.get)
	router.Patch("/:id<int>/review", h.review)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.submissions.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		case errors.Is(err, taskschema.ErrMissingContent),
			errors.Is(err, taskschema.ErrUnknownTaskType):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create submission")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submission, err := h.submissions.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("submission_id", id).Msg("failed to get submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get submission")
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	taskID, err := parseQueryUint(c, "task_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task_id")
	}
	teenID, err := parseQueryUint(c, "teen_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid teen_id")
	}

	var status *string
	if value := strings.TrimSpace(c.Query("status")); value != "" {
		normalized := strings.ToUpper(value)
		status = &normalized
	}

	submissions, err := h.submissions.List(c.Context(), taskID, teenID, status)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) review(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	reviewer := reviewerFromContext(c)
	submission, err := h.reviews.Review(c.Context(), id, payload, reviewer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, service.ErrInvalidReviewStatus),
			errors.Is(err, service.ErrScoreOutOfRange),
			errors.Is(err, service.ErrNoteTooLong):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("submission_id", id).Msg("failed to review submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to review submission")
		}
	}

	return utils.SendSuccess(c, "submission reviewed", submission)
}
