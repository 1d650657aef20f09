package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
)

// ErrDrawAlreadyExists indicates the year already has a recorded draw.
var ErrDrawAlreadyExists = errors.New("raffle draw already exists for year")

// ErrNoEligibleTeens indicates nobody qualifies for the year's draw.
var ErrNoEligibleTeens = errors.New("no eligible teens for raffle")

// RaffleService computes yearly eligibility and records the single draw.
// Eligibility is a pure derivation recomputed on demand: a teen qualifies for
// year Y only by holding a purchase record for the badge of every challenge
// published in Y. The draw is the one non-idempotent operation in the system.
type RaffleService interface {
	Eligibility(ctx context.Context, year int) (dto.RaffleEligibilityResponse, error)
	CreateDraw(ctx context.Context, year int, payload dto.RaffleDrawRequest) (dto.RaffleDrawResponse, error)
}

type raffleService struct {
	repo      repository.RaffleRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
	pick      func(n int) int
}

// NewRaffleService constructs the raffle service.
func NewRaffleService(repo repository.RaffleRepository, validate *validator.Validate, logger zerolog.Logger) RaffleService {
	return &raffleService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "raffle_service").Logger(),
		now:       time.Now,
		pick:      rand.Intn,
	}
}

func (s *raffleService) Eligibility(ctx context.Context, year int) (dto.RaffleEligibilityResponse, error) {
	eligible, err := s.eligibleTeens(ctx, year)
	if err != nil {
		return dto.RaffleEligibilityResponse{}, err
	}

	response := dto.RaffleEligibilityResponse{
		Year:          year,
		EligibleCount: len(eligible),
		EligibleTeens: eligible,
	}

	draw, err := s.repo.GetDraw(ctx, year)
	if err == nil {
		recorded := dto.NewRaffleDrawResponse(draw)
		response.RaffleDraw = &recorded
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RaffleEligibilityResponse{}, err
	}

	return response, nil
}

func (s *raffleService) CreateDraw(ctx context.Context, year int, payload dto.RaffleDrawRequest) (dto.RaffleDrawResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RaffleDrawResponse{}, err
	}

	eligible, err := s.eligibleTeens(ctx, year)
	if err != nil {
		return dto.RaffleDrawResponse{}, err
	}
	if len(eligible) == 0 {
		return dto.RaffleDrawResponse{}, ErrNoEligibleTeens
	}

	winner := eligible[s.pick(len(eligible))]
	draw := models.RaffleDraw{
		Year:         year,
		Prize:        strings.TrimSpace(payload.Prize),
		Description:  strings.TrimSpace(payload.Description),
		WinnerTeenID: winner.ID,
		DrawnAt:      s.now(),
	}

	if err := s.repo.CreateDraw(ctx, &draw); err != nil {
		if errors.Is(err, repository.ErrDrawExists) {
			return dto.RaffleDrawResponse{}, ErrDrawAlreadyExists
		}
		return dto.RaffleDrawResponse{}, err
	}

	s.logger.Info().
		Int("year", year).
		Uint("winner_teen_id", winner.ID).
		Int("eligible_count", len(eligible)).
		Msg("raffle draw recorded")

	response := dto.NewRaffleDrawResponse(draw)
	response.WinnerName = winner.Name
	return response, nil
}

// eligibleTeens intersects badge holders across every published challenge of
// the year. No published challenges means nobody qualifies.
func (s *raffleService) eligibleTeens(ctx context.Context, year int) ([]dto.TeenLite, error) {
	challenges, err := s.repo.PublishedChallenges(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, nil
	}

	badgeIDs := make([]uint, 0, len(challenges))
	for _, challenge := range challenges {
		if challenge.Badge == nil {
			// A published challenge without a badge should not exist; nobody
			// can hold its badge, so the eligible set is empty.
			return nil, nil
		}
		badgeIDs = append(badgeIDs, challenge.Badge.ID)
	}

	purchases, err := s.repo.ListPurchases(ctx, badgeIDs)
	if err != nil {
		return nil, err
	}

	held := make(map[uint]map[uint]struct{})
	teens := make(map[uint]models.Teen)
	for _, purchase := range purchases {
		if held[purchase.TeenID] == nil {
			held[purchase.TeenID] = make(map[uint]struct{})
		}
		held[purchase.TeenID][purchase.BadgeID] = struct{}{}
		teens[purchase.TeenID] = purchase.Teen
	}

	eligible := make([]dto.TeenLite, 0)
	for teenID, badges := range held {
		if len(badges) != len(badgeIDs) {
			continue
		}
		teen := teens[teenID]
		eligible = append(eligible, dto.TeenLite{ID: teenID, Name: teen.Name, Email: teen.Email})
	}

	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	return eligible, nil
}
