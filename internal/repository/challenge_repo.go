package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// ChallengeRepository provides persistence helpers for monthly challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id uint) (models.Challenge, error)
	List(ctx context.Context, year int, month *int) ([]models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	ExistsForMonth(ctx context.Context, year, month int) (bool, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository builds a GORM-backed challenge repository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id uint) (models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("tasks.id ASC")
		}).
		First(&challenge, id).Error; err != nil {
		return models.Challenge{}, err
	}

	return challenge, nil
}

func (r *challengeRepository) List(ctx context.Context, year int, month *int) ([]models.Challenge, error) {
	query := r.db.WithContext(ctx).Preload("Badge").Order("year ASC, month ASC")
	if year > 0 {
		query = query.Where("year = ?", year)
	}
	if month != nil {
		query = query.Where("month = ?", *month)
	}

	var challenges []models.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}

func (r *challengeRepository) Update(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

func (r *challengeRepository) ExistsForMonth(ctx context.Context, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
