package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

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

// AnalyticsService derives completion statistics for challenges and yearly
// scopes. All derivations are read-only recomputations from source rows;
// absence of participation yields zeroed aggregates, never an error.
type AnalyticsService interface {
	ChallengeStats(ctx context.Context, challengeID uint) (dto.ChallengeStatsResponse, error)
	Overview(ctx context.Context, year int, month *int) (dto.AnalyticsOverviewResponse, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService constructs the analytics service. A nil cache disables
// the cache-aside layer.
func NewAnalyticsService(repo repository.AnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

func (s *analyticsService) ChallengeStats(ctx context.Context, challengeID uint) (dto.ChallengeStatsResponse, error) {
	tracer := otel.Tracer("github.com/brightpath-mentorship/console-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.challenge_stats")
	span.SetAttributes(attribute.Int64("analytics.challenge_id", int64(challengeID)))
	defer span.End()

	cacheKey := challengeStatsKey(challengeID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.ChallengeStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read challenge stats cache")
		}
	}

	challenge, err := s.repo.ChallengeWithTasks(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "challenge_not_found")
			return dto.ChallengeStatsResponse{}, ErrChallengeNotFound
		}
		span.RecordError(err)
		return dto.ChallengeStatsResponse{}, err
	}

	submissions, err := s.repo.SubmissionsForChallenge(ctx, challengeID)
	if err != nil {
		span.RecordError(err)
		return dto.ChallengeStatsResponse{}, err
	}

	stats := buildChallengeStats(challenge, submissions)
	span.SetAttributes(
		attribute.Int("analytics.participants", stats.TotalParticipants),
		attribute.Int("analytics.completed", stats.CompletedCount),
	)

	s.store(ctx, cacheKey, stats)
	return stats, nil
}

func (s *analyticsService) Overview(ctx context.Context, year int, month *int) (dto.AnalyticsOverviewResponse, error) {
	tracer := otel.Tracer("github.com/brightpath-mentorship/console-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.overview")
	span.SetAttributes(attribute.Int("analytics.year", year))
	defer span.End()

	cacheKey := overviewKey(year, month, s.generation(ctx))
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AnalyticsOverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read overview cache")
		}
	}

	challenges, err := s.repo.ChallengesInScope(ctx, year, month)
	if err != nil {
		span.RecordError(err)
		return dto.AnalyticsOverviewResponse{}, err
	}

	perChallenge := make([]dto.ChallengeStatsResponse, 0, len(challenges))
	totalParticipants := 0
	totalCompleted := 0
	progressSum := 0.0
	for _, challenge := range challenges {
		submissions, err := s.repo.SubmissionsForChallenge(ctx, challenge.ID)
		if err != nil {
			span.RecordError(err)
			return dto.AnalyticsOverviewResponse{}, err
		}

		stats := buildChallengeStats(challenge, submissions)
		perChallenge = append(perChallenge, stats)
		totalParticipants += stats.TotalParticipants
		totalCompleted += stats.CompletedCount
		progressSum += stats.AverageProgress
	}

	overview := dto.AnalyticsOverviewResponse{
		Year:        year,
		Month:       month,
		Challenges:  perChallenge,
		GeneratedAt: s.now(),
	}
	if totalParticipants > 0 {
		overview.OverallCompletion = float64(totalCompleted) / float64(totalParticipants) * 100
	}
	if len(perChallenge) > 0 {
		overview.AvgProgress = progressSum / float64(len(perChallenge))
	}

	span.SetAttributes(attribute.Int("analytics.challenge_count", len(perChallenge)))
	s.store(ctx, cacheKey, overview)
	return overview, nil
}

func (s *analyticsService) generation(ctx context.Context) int64 {
	if s.cache == nil {
		return 0
	}
	generation, err := s.cache.Get(ctx, overviewGenerationKey).Int64()
	if err != nil {
		return 0
	}
	return generation
}

func (s *analyticsService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store analytics cache")
	}
}

// buildChallengeStats computes participation aggregates for one challenge.
// A teen participates once they have any submission on the challenge;
// progress is the share of required tasks with an approved submission. A
// challenge without required tasks counts every participant as complete.
func buildChallengeStats(challenge models.Challenge, submissions []models.Submission) dto.ChallengeStatsResponse {
	required := make(map[uint]struct{})
	for _, task := range challenge.Tasks {
		if task.IsRequired {
			required[task.ID] = struct{}{}
		}
	}

	approvedByTeen := make(map[uint]map[uint]struct{})
	participants := make(map[uint]struct{})
	for _, submission := range submissions {
		participants[submission.TeenID] = struct{}{}
		if submission.Status != models.SubmissionStatusApproved {
			continue
		}
		if _, isRequired := required[submission.TaskID]; !isRequired {
			continue
		}
		if approvedByTeen[submission.TeenID] == nil {
			approvedByTeen[submission.TeenID] = make(map[uint]struct{})
		}
		approvedByTeen[submission.TeenID][submission.TaskID] = struct{}{}
	}

	stats := dto.ChallengeStatsResponse{
		ChallengeID:          challenge.ID,
		Year:                 challenge.Year,
		Month:                challenge.Month,
		Title:                challenge.Title,
		TotalParticipants:    len(participants),
		ProgressDistribution: dto.EmptyProgressDistribution(),
	}

	if len(participants) == 0 {
		return stats
	}

	progressSum := 0.0
	for teenID := range participants {
		progress := 100.0
		if len(required) > 0 {
			progress = float64(len(approvedByTeen[teenID])) / float64(len(required)) * 100
		}
		progressSum += progress
		if progress >= 100 {
			stats.CompletedCount++
		}
		stats.ProgressDistribution[progressBucket(progress)]++
	}

	stats.AverageProgress = progressSum / float64(len(participants))
	return stats
}

func progressBucket(progress float64) string {
	switch {
	case progress >= 100:
		return dto.BucketComplete
	case progress >= 75:
		return dto.BucketNearComplete
	case progress >= 50:
		return dto.BucketThreeQuarter
	case progress >= 25:
		return dto.BucketHalf
	default:
		return dto.BucketQuarter
	}
}
