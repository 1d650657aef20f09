package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// ErrDrawExists signals the year already holds a recorded draw. The service
// layer translates it into its own sentinel; the repository reports it so the
// create path stays all-or-nothing.
var ErrDrawExists = errors.New("raffle draw already recorded for year")

// RaffleRepository provides the reads backing eligibility computation and the
// guarded write for the yearly draw.
type RaffleRepository interface {
	PublishedChallenges(ctx context.Context, year int) ([]models.Challenge, error)
	ListPurchases(ctx context.Context, badgeIDs []uint) ([]models.TeenBadge, error)
	GetDraw(ctx context.Context, year int) (models.RaffleDraw, error)
	CreateDraw(ctx context.Context, draw *models.RaffleDraw) error
}

type raffleRepository struct {
	db *gorm.DB
}

// NewRaffleRepository builds a GORM-backed raffle repository.
func NewRaffleRepository(db *gorm.DB) RaffleRepository {
	return &raffleRepository{db: db}
}

func (r *raffleRepository) PublishedChallenges(ctx context.Context, year int) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("year = ? AND is_published = ?", year, true).
		Order("month ASC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}

func (r *raffleRepository) ListPurchases(ctx context.Context, badgeIDs []uint) ([]models.TeenBadge, error) {
	if len(badgeIDs) == 0 {
		return nil, nil
	}

	var purchases []models.TeenBadge
	if err := r.db.WithContext(ctx).
		Preload("Teen").
		Where("badge_id IN ?", badgeIDs).
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *raffleRepository) GetDraw(ctx context.Context, year int) (models.RaffleDraw, error) {
	var draw models.RaffleDraw
	if err := r.db.WithContext(ctx).
		Preload("WinnerTeen").
		Where("year = ?", year).
		First(&draw).Error; err != nil {
		return models.RaffleDraw{}, err
	}

	return draw, nil
}

// CreateDraw checks for an existing draw under a row lock and inserts inside
// the same transaction. The unique index on year backstops the check, so two
// concurrent draws for one year commit exactly once.
func (r *raffleRepository) CreateDraw(ctx context.Context, draw *models.RaffleDraw) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("year = ?", draw.Year)
		// sqlite has no row locks and rejects FOR UPDATE; the unique index on
		// year still guards the insert there.
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing models.RaffleDraw
		err := query.First(&existing).Error
		if err == nil {
			return ErrDrawExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(draw).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDrawExists
			}
			return err
		}

		return nil
	})
}
