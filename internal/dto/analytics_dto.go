package dto

import "time"

// Distribution bucket labels. Buckets are half-open except the final
// singleton: a teen lands in "100" only at full completion.
const (
	BucketQuarter      = "0-25"
	BucketHalf         = "25-50"
	BucketThreeQuarter = "50-75"
	BucketNearComplete = "75-99"
	BucketComplete     = "100"
)

// ProgressDistribution counts teens per completion bucket. Every bucket key
// is always present, zero-valued when empty.
type ProgressDistribution map[string]int

// EmptyProgressDistribution returns a distribution with all buckets at zero.
func EmptyProgressDistribution() ProgressDistribution {
	return ProgressDistribution{
		BucketQuarter:      0,
		BucketHalf:         0,
		BucketThreeQuarter: 0,
		BucketNearComplete: 0,
		BucketComplete:     0,
	}
}

// ChallengeStatsResponse aggregates participation for one challenge.
type ChallengeStatsResponse struct {
	ChallengeID          uint                 `json:"challenge_id"`
	Year                 int                  `json:"year"`
	Month                int                  `json:"month"`
	Title                string               `json:"title"`
	TotalParticipants    int                  `json:"total_participants"`
	CompletedCount       int                  `json:"completed_count"`
	AverageProgress      float64              `json:"average_progress"`
	ProgressDistribution ProgressDistribution `json:"progress_distribution"`
}

// AnalyticsOverviewResponse rolls challenge stats up across a scope.
type AnalyticsOverviewResponse struct {
	Year              int                      `json:"year"`
	Month             *int                     `json:"month,omitempty"`
	Challenges        []ChallengeStatsResponse `json:"challenges"`
	OverallCompletion float64                  `json:"overall_completion"`
	AvgProgress       float64                  `json:"avg_progress"`
	GeneratedAt       time.Time                `json:"generated_at"`
	CacheHit          bool                     `json:"cache_hit"`
}
