package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// BadgeRepository provides persistence helpers for badges and their purchases.
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) error
	GetByID(ctx context.Context, id uint) (models.Badge, error)
	GetByChallenge(ctx context.Context, challengeID uint) (models.Badge, error)
	ListChallengesWithoutBadge(ctx context.Context) ([]models.Challenge, error)
	CreatePurchase(ctx context.Context, purchase *models.TeenBadge) error
	HasPurchase(ctx context.Context, teenID, badgeID uint) (bool, error)
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository builds a GORM-backed badge repository.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *badgeRepository) GetByID(ctx context.Context, id uint) (models.Badge, error) {
	var badge models.Badge
	if err := r.db.WithContext(ctx).First(&badge, id).Error; err != nil {
		return models.Badge{}, err
	}

	return badge, nil
}

func (r *badgeRepository) GetByChallenge(ctx context.Context, challengeID uint) (models.Badge, error) {
	var badge models.Badge
	if err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		First(&badge).Error; err != nil {
		return models.Badge{}, err
	}

	return badge, nil
}

func (r *badgeRepository) ListChallengesWithoutBadge(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&models.Badge{}).Select("challenge_id")).
		Order("year ASC, month ASC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}

func (r *badgeRepository) CreatePurchase(ctx context.Context, purchase *models.TeenBadge) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *badgeRepository) HasPurchase(ctx context.Context, teenID, badgeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeenBadge{}).
		Where("teen_id = ? AND badge_id = ?", teenID, badgeID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
