package models

import "time"

// Challenge is a monthly program unit uniquely keyed by (year, month).
type Challenge struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_challenge_month" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_challenge_month" json:"month"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Theme       string     `gorm:"size:255" json:"theme"`
	Description string     `gorm:"type:text" json:"description"`
	IsPublished bool       `gorm:"default:false" json:"is_published"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	GoLiveDate  *time.Time `json:"go_live_date"`
	ClosingDate *time.Time `json:"closing_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tasks       []Task     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tasks,omitempty"`
	Badge       *Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"badge,omitempty"`
}

// Display statuses derived from the lifecycle flags and the go-live window.
const (
	ChallengeStatusDraft     = "draft"
	ChallengeStatusScheduled = "scheduled"
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"
	ChallengeStatusInactive  = "inactive"
)

// DisplayStatus derives the lifecycle status shown to staff. A deactivated
// challenge reports inactive regardless of its publication window.
func (ch Challenge) DisplayStatus(reference time.Time) string {
	if !ch.IsActive {
		return ChallengeStatusInactive
	}
	if !ch.IsPublished {
		return ChallengeStatusDraft
	}
	if ch.GoLiveDate != nil && reference.Before(*ch.GoLiveDate) {
		return ChallengeStatusScheduled
	}
	if ch.ClosingDate != nil && reference.After(*ch.ClosingDate) {
		return ChallengeStatusCompleted
	}
	return ChallengeStatusActive
}

// HasBadge reports whether a badge is already attached to the challenge.
func (ch Challenge) HasBadge() bool {
	return ch.Badge != nil && ch.Badge.ID != 0
}
