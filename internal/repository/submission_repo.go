package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	TaskID *uint
	TeenID *uint
	Status *string
}

// SubmissionRepository provides persistence helpers for teen submissions and
// the review workflow.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	// ReviewTx loads the submission under a row lock, applies the mutation and
	// saves the whole record in one transaction. Two concurrent reviews of the
	// same submission serialize on the lock, so the committed record is always
	// one caller's complete write, never an interleaving.
	ReviewTx(ctx context.Context, id uint, apply func(submission *models.Submission) error) (models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository builds a GORM-backed submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Teen").
		First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Preload("Task").Preload("Teen").Order("submissions.id ASC")
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.TeenID != nil {
		query = query.Where("teen_id = ?", *filter.TeenID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ReviewTx(ctx context.Context, id uint, apply func(submission *models.Submission) error) (models.Submission, error) {
	var reviewed models.Submission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Preload("Task")
		// sqlite has no row locks and rejects FOR UPDATE; its writes are
		// serialized at the database level anyway.
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var submission models.Submission
		if err := query.First(&submission, id).Error; err != nil {
			return err
		}

		if err := apply(&submission); err != nil {
			return err
		}

		if err := tx.Save(&submission).Error; err != nil {
			return err
		}

		reviewed = submission
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	return reviewed, nil
}
