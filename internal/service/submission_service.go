package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService handles teen submission intake and staff-facing reads.
type SubmissionService interface {
	Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	List(ctx context.Context, taskID, teenID *uint, status *string) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	repo      repository.SubmissionRepository
	tasks     repository.TaskRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, tasks repository.TaskRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:      repo,
		tasks:     tasks,
		validator: validate,
		logger:    logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// The content document must interpret under the task's declared type
	// before anything is persisted.
	if _, err := taskschema.ValidateContent(taskschema.TaskType(task.TaskType), payload.Content); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		TaskID:  task.ID,
		TeenID:  payload.TeenID,
		Content: datatypes.JSON(payload.Content),
		Status:  models.SubmissionStatusPending,
	}
	submission.SetFileRefs(payload.FileRefs)

	if err := s.repo.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("task_id", task.ID).
		Uint("teen_id", payload.TeenID).
		Msg("submission received")

	submission.Task = task
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, taskID, teenID *uint, status *string) ([]dto.SubmissionResponse, error) {
	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{
		TaskID: taskID,
		TeenID: teenID,
		Status: status,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}

	return responses, nil
}
