package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// AnalyticsRepository provides the reads backing aggregate statistics.
// Everything here is read-only: aggregation recomputes from source rows.
type AnalyticsRepository interface {
	ChallengesInScope(ctx context.Context, year int, month *int) ([]models.Challenge, error)
	ChallengeWithTasks(ctx context.Context, challengeID uint) (models.Challenge, error)
	SubmissionsForChallenge(ctx context.Context, challengeID uint) ([]models.Submission, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository builds a GORM-backed analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ChallengesInScope(ctx context.Context, year int, month *int) ([]models.Challenge, error) {
	query := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("year = ?", year).
		Order("month ASC")
	if month != nil {
		query = query.Where("month = ?", *month)
	}

	var challenges []models.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}

	return challenges, nil
}

func (r *analyticsRepository) ChallengeWithTasks(ctx context.Context, challengeID uint) (models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).
		Preload("Tasks").
		First(&challenge, challengeID).Error; err != nil {
		return models.Challenge{}, err
	}

	return challenge, nil
}

func (r *analyticsRepository) SubmissionsForChallenge(ctx context.Context, challengeID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("tasks.challenge_id = ?", challengeID).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
