package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
)

// ErrChallengeNotFound indicates the challenge was not located.
var ErrChallengeNotFound = errors.New("challenge not found")

// ErrChallengeExists indicates the (year, month) slot is already taken.
var ErrChallengeExists = errors.New("challenge already exists for month")

// ChallengeService manages monthly challenge records.
type ChallengeService interface {
	Create(ctx context.Context, payload dto.ChallengeCreateRequest) (dto.ChallengeResponse, error)
	Get(ctx context.Context, id uint) (dto.ChallengeResponse, error)
	List(ctx context.Context, filter dto.ChallengeFilter) ([]dto.ChallengeResponse, error)
	SetActive(ctx context.Context, id uint, active bool) (dto.ChallengeResponse, error)
}

type challengeService struct {
	repo      repository.ChallengeRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewChallengeService constructs the challenge service.
func NewChallengeService(repo repository.ChallengeRepository, validate *validator.Validate, logger zerolog.Logger) ChallengeService {
	return &challengeService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "challenge_service").Logger(),
		now:       time.Now,
	}
}

func (s *challengeService) Create(ctx context.Context, payload dto.ChallengeCreateRequest) (dto.ChallengeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChallengeResponse{}, err
	}

	exists, err := s.repo.ExistsForMonth(ctx, payload.Year, payload.Month)
	if err != nil {
		return dto.ChallengeResponse{}, err
	}
	if exists {
		return dto.ChallengeResponse{}, ErrChallengeExists
	}

	challenge := models.Challenge{
		Year:        payload.Year,
		Month:       payload.Month,
		Title:       strings.TrimSpace(payload.Title),
		Theme:       strings.TrimSpace(payload.Theme),
		Description: s.sanitizer.Sanitize(strings.TrimSpace(payload.Description)),
		IsActive:    true,
		GoLiveDate:  payload.GoLiveDate,
		ClosingDate: payload.ClosingDate,
	}

	if err := s.repo.Create(ctx, &challenge); err != nil {
		return dto.ChallengeResponse{}, err
	}

	s.logger.Info().Uint("challenge_id", challenge.ID).Int("year", challenge.Year).Int("month", challenge.Month).Msg("challenge created")
	return dto.NewChallengeResponse(challenge, s.now()), nil
}

func (s *challengeService) Get(ctx context.Context, id uint) (dto.ChallengeResponse, error) {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChallengeResponse{}, ErrChallengeNotFound
		}
		return dto.ChallengeResponse{}, err
	}

	return dto.NewChallengeResponse(challenge, s.now()), nil
}

func (s *challengeService) List(ctx context.Context, filter dto.ChallengeFilter) ([]dto.ChallengeResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	challenges, err := s.repo.List(ctx, filter.Year, filter.Month)
	if err != nil {
		return nil, err
	}

	reference := s.now()
	responses := make([]dto.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		responses = append(responses, dto.NewChallengeResponse(challenge, reference))
	}

	return responses, nil
}

func (s *challengeService) SetActive(ctx context.Context, id uint, active bool) (dto.ChallengeResponse, error) {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChallengeResponse{}, ErrChallengeNotFound
		}
		return dto.ChallengeResponse{}, err
	}

	challenge.IsActive = active
	if err := s.repo.Update(ctx, &challenge); err != nil {
		return dto.ChallengeResponse{}, err
	}

	return dto.NewChallengeResponse(challenge, s.now()), nil
}
