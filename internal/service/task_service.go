package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
)

// ErrTaskNotFound indicates the task was not located.
var ErrTaskNotFound = errors.New("task not found")

const defaultMaxScore = 100

// TaskService manages task authoring. All options payloads pass through the
// schema registry, so persisted documents are always normalized and
// identifier-complete.
type TaskService interface {
	Create(ctx context.Context, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	ListByChallenge(ctx context.Context, challengeID uint) ([]dto.TaskResponse, error)
	Delete(ctx context.Context, id uint) error
}

type taskService struct {
	repo       repository.TaskRepository
	challenges repository.ChallengeRepository
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewTaskService constructs the task service.
func NewTaskService(repo repository.TaskRepository, challenges repository.ChallengeRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:       repo,
		challenges: challenges,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) Create(ctx context.Context, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	if _, err := s.challenges.GetByID(ctx, payload.ChallengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrChallengeNotFound
		}
		return dto.TaskResponse{}, err
	}

	taskType := taskschema.TaskType(strings.ToUpper(strings.TrimSpace(payload.TaskType)))
	options, err := taskschema.NormalizeOptions(taskType, payload.Options)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	maxScore := defaultMaxScore
	if payload.MaxScore != nil {
		maxScore = *payload.MaxScore
	}

	task := models.Task{
		ChallengeID:    payload.ChallengeID,
		Tab:            strings.TrimSpace(payload.Tab),
		Title:          strings.TrimSpace(payload.Title),
		Description:    s.sanitizer.Sanitize(strings.TrimSpace(payload.Description)),
		TaskType:       string(taskType),
		Options:        options,
		IsRequired:     payload.IsRequired,
		CompletionRule: strings.TrimSpace(payload.CompletionRule),
		MaxScore:       maxScore,
		DueDate:        payload.DueDate,
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Str("task_type", task.TaskType).Msg("task created")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if payload.Tab != nil {
		task.Tab = strings.TrimSpace(*payload.Tab)
	}
	if payload.Title != nil {
		task.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		task.Description = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Description))
	}
	if payload.Options != nil {
		// Normalization keeps existing sub-item ids; only new items gain one.
		options, err := taskschema.NormalizeOptions(taskschema.TaskType(task.TaskType), payload.Options)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		task.Options = options
	}
	if payload.IsRequired != nil {
		task.IsRequired = *payload.IsRequired
	}
	if payload.CompletionRule != nil {
		task.CompletionRule = strings.TrimSpace(*payload.CompletionRule)
	}
	if payload.MaxScore != nil {
		task.MaxScore = *payload.MaxScore
	}
	if payload.DueDate != nil {
		task.DueDate = payload.DueDate
	}

	if err := s.repo.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) ListByChallenge(ctx context.Context, challengeID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}

	return responses, nil
}

func (s *taskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
