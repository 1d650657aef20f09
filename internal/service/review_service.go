package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/brightpath-mentorship/console-api/internal/dto"
	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/repository"
)

// ErrInvalidReviewStatus indicates a review status outside APPROVED/REJECTED.
var ErrInvalidReviewStatus = errors.New("review status must be APPROVED or REJECTED")

// ErrScoreOutOfRange indicates a score outside [0, task max].
var ErrScoreOutOfRange = errors.New("score outside task maximum")

// ErrNoteTooLong indicates a review note over the 500 character limit.
var ErrNoteTooLong = errors.New("review note exceeds 500 characters")

const maxReviewNoteLength = 500

// reviewedSubject is the NATS subject carrying review events.
const reviewedSubject = "console.submissions.reviewed"

// Reviewer identifies the staff member performing a review.
type Reviewer struct {
	ID   uint
	Role string
}

// ReviewService governs the submission review state machine. A review always
// writes a terminal status plus its audit stamp; score and note follow
// partial-update semantics, so a quick approve never erases an earlier
// recorded score or note. Scores cannot be saved against a PENDING
// submission: the only path for a score is through a terminal review.
type ReviewService interface {
	Review(ctx context.Context, submissionID uint, payload dto.ReviewRequest, reviewer Reviewer) (dto.SubmissionResponse, error)
}

type reviewService struct {
	repo      repository.SubmissionRepository
	validator *validator.Validate
	cache     *redis.Client
	events    *nats.Conn
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReviewService constructs the review service. Cache and events are
// optional; a nil client skips invalidation or publishing respectively.
func NewReviewService(repo repository.SubmissionRepository, validate *validator.Validate, cache *redis.Client, events *nats.Conn, logger zerolog.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "review_service").Logger(),
		now:       time.Now,
	}
}

func (s *reviewService) Review(ctx context.Context, submissionID uint, payload dto.ReviewRequest, reviewer Reviewer) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/brightpath-mentorship/console-api/internal/service/review")
	ctx, span := tracer.Start(ctx, "review.apply")
	span.SetAttributes(
		attribute.Int64("review.submission_id", int64(submissionID)),
		attribute.Int64("review.reviewer_id", int64(reviewer.ID)),
		attribute.String("review.status", payload.Status),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	status := strings.ToUpper(strings.TrimSpace(payload.Status))
	if status != models.SubmissionStatusApproved && status != models.SubmissionStatusRejected {
		return dto.SubmissionResponse{}, ErrInvalidReviewStatus
	}

	var note *string
	if payload.ReviewNote != nil {
		sanitized := strings.TrimSpace(s.sanitizer.Sanitize(*payload.ReviewNote))
		if utf8.RuneCountInString(sanitized) > maxReviewNoteLength {
			err := ErrNoteTooLong
			span.RecordError(err)
			span.SetStatus(codes.Error, "note_too_long")
			return dto.SubmissionResponse{}, err
		}
		note = &sanitized
	}

	reviewedAt := s.now()
	submission, err := s.repo.ReviewTx(ctx, submissionID, func(submission *models.Submission) error {
		if payload.Score != nil {
			maxScore := submission.Task.EffectiveMaxScore()
			if *payload.Score < 0 || *payload.Score > maxScore {
				return ErrScoreOutOfRange
			}
			score := *payload.Score
			submission.Score = &score
		}
		if note != nil {
			submission.ReviewNote = *note
		}

		submission.Status = status
		reviewedBy := reviewer.ID
		submission.ReviewedBy = &reviewedBy
		submission.ReviewedAt = &reviewedAt
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.RecordError(err)
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		case errors.Is(err, ErrScoreOutOfRange):
			span.RecordError(err)
			span.SetStatus(codes.Error, "score_out_of_range")
			return dto.SubmissionResponse{}, err
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "review_write_failed")
			return dto.SubmissionResponse{}, err
		}
	}

	s.invalidateAggregates(ctx, submission.Task.ChallengeID)
	s.publishReviewed(submission, reviewer)

	if payload.Score != nil {
		span.SetAttributes(attribute.Int("review.score", *payload.Score))
	}

	return dto.NewSubmissionResponse(submission), nil
}

// invalidateAggregates drops every cached view the review could have staled.
// Aggregates are recomputed from source rows on the next read, never patched.
func (s *reviewService) invalidateAggregates(ctx context.Context, challengeID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, challengeStatsKey(challengeID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("challenge_id", challengeID).Msg("failed to drop challenge stats cache")
	}
	if err := s.cache.Incr(ctx, overviewGenerationKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to bump overview cache generation")
	}
}

func (s *reviewService) publishReviewed(submission models.Submission, reviewer Reviewer) {
	if s.events == nil {
		return
	}

	event := map[string]interface{}{
		"submission_id": submission.ID,
		"task_id":       submission.TaskID,
		"challenge_id":  submission.Task.ChallengeID,
		"teen_id":       submission.TeenID,
		"status":        submission.Status,
		"score":         submission.Score,
		"reviewed_by":   reviewer.ID,
		"reviewed_at":   submission.ReviewedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.events.Publish(reviewedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish review event")
	}
}
