package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task is a unit of work within a challenge. Its Options document is a
// type-dependent payload; consumers must dispatch on TaskType before
// interpreting it.
type Task struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ChallengeID    uint           `gorm:"not null;index" json:"challenge_id"`
	Tab            string         `gorm:"size:64" json:"tab"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	TaskType       string         `gorm:"size:32;not null" json:"task_type"`
	Options        datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
	IsRequired     bool           `gorm:"default:false" json:"is_required"`
	CompletionRule string         `gorm:"type:text" json:"completion_rule"`
	MaxScore       int            `gorm:"not null;default:100" json:"max_score"`
	DueDate        *time.Time     `json:"due_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Challenge      Challenge      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// EffectiveMaxScore guards against legacy rows persisted before the default applied.
func (t Task) EffectiveMaxScore() int {
	if t.MaxScore <= 0 {
		return 100
	}
	return t.MaxScore
}
