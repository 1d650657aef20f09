package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
)

// ErrDuplicateBadge indicates the challenge already owns a badge.
var ErrDuplicateBadge = errors.New("challenge already has a badge")

// ErrBadgeRequired indicates a publication attempt on a badge-less challenge.
var ErrBadgeRequired = errors.New("challenge cannot be published without a badge")

// ErrBadgeNotFound indicates the badge was not located.
var ErrBadgeNotFound = errors.New("badge not found")

// ErrBadgeInactive indicates a purchase attempt on a deactivated badge.
var ErrBadgeInactive = errors.New("badge is not active")

// ErrAlreadyPurchased indicates the teen already holds this badge.
var ErrAlreadyPurchased = errors.New("badge already purchased")

// BadgeService enforces the one-badge-per-challenge invariant and the badge
// gate on publication, and records teen purchases.
type BadgeService interface {
	CreateBadge(ctx context.Context, challengeID uint, payload dto.BadgeCreateRequest) (dto.BadgeResponse, error)
	PublishChallenge(ctx context.Context, challengeID uint) (dto.ChallengeResponse, error)
	AvailableChallenges(ctx context.Context) ([]dto.ChallengeResponse, error)
	PurchaseBadge(ctx context.Context, badgeID uint, payload dto.BadgePurchaseRequest) (dto.BadgeResponse, error)
}

type badgeService struct {
	badges     repository.BadgeRepository
	challenges repository.ChallengeRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewBadgeService constructs the badge service.
func NewBadgeService(badges repository.BadgeRepository, challenges repository.ChallengeRepository, validate *validator.Validate, logger zerolog.Logger) BadgeService {
	return &badgeService{
		badges:     badges,
		challenges: challenges,
		validator:  validate,
		logger:     logger.With().Str("component", "badge_service").Logger(),
		now:        time.Now,
	}
}

func (s *badgeService) CreateBadge(ctx context.Context, challengeID uint, payload dto.BadgeCreateRequest) (dto.BadgeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BadgeResponse{}, err
	}

	if _, err := s.challenges.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BadgeResponse{}, ErrChallengeNotFound
		}
		return dto.BadgeResponse{}, err
	}

	if _, err := s.badges.GetByChallenge(ctx, challengeID); err == nil {
		return dto.BadgeResponse{}, ErrDuplicateBadge
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.BadgeResponse{}, err
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	badge := models.Badge{
		ChallengeID: challengeID,
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		ImageURL:    strings.TrimSpace(payload.ImageURL),
		Price:       payload.Price,
		IsActive:    active,
	}

	if err := s.badges.Create(ctx, &badge); err != nil {
		return dto.BadgeResponse{}, err
	}

	s.logger.Info().Uint("badge_id", badge.ID).Uint("challenge_id", challengeID).Msg("badge created")
	return dto.NewBadgeResponse(badge), nil
}

func (s *badgeService) PublishChallenge(ctx context.Context, challengeID uint) (dto.ChallengeResponse, error) {
	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChallengeResponse{}, ErrChallengeNotFound
		}
		return dto.ChallengeResponse{}, err
	}

	if !challenge.HasBadge() {
		return dto.ChallengeResponse{}, ErrBadgeRequired
	}

	challenge.IsPublished = true
	if err := s.challenges.Update(ctx, &challenge); err != nil {
		return dto.ChallengeResponse{}, err
	}

	s.logger.Info().Uint("challenge_id", challenge.ID).Msg("challenge published")
	return dto.NewChallengeResponse(challenge, s.now()), nil
}

func (s *badgeService) AvailableChallenges(ctx context.Context) ([]dto.ChallengeResponse, error) {
	challenges, err := s.badges.ListChallengesWithoutBadge(ctx)
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

func (s *badgeService) PurchaseBadge(ctx context.Context, badgeID uint, payload dto.BadgePurchaseRequest) (dto.BadgeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BadgeResponse{}, err
	}

	badge, err := s.badges.GetByID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BadgeResponse{}, ErrBadgeNotFound
		}
		return dto.BadgeResponse{}, err
	}

	if !badge.IsActive {
		return dto.BadgeResponse{}, ErrBadgeInactive
	}

	purchased, err := s.badges.HasPurchase(ctx, payload.TeenID, badgeID)
	if err != nil {
		return dto.BadgeResponse{}, err
	}
	if purchased {
		return dto.BadgeResponse{}, ErrAlreadyPurchased
	}

	purchase := models.TeenBadge{
		TeenID:      payload.TeenID,
		BadgeID:     badgeID,
		PurchasedAt: s.now(),
	}
	if err := s.badges.CreatePurchase(ctx, &purchase); err != nil {
		return dto.BadgeResponse{}, err
	}

	s.logger.Info().Uint("badge_id", badgeID).Uint("teen_id", payload.TeenID).Msg("badge purchased")
	return dto.NewBadgeResponse(badge), nil
}
