package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Submission is a teen's response to a task. Content carries a document whose
// shape is dictated by the parent task's type; FileRefs holds opaque storage
// references owned by the submission, not the content document.
type Submission struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TaskID     uint           `gorm:"not null;index" json:"task_id"`
	TeenID     uint           `gorm:"not null;index" json:"teen_id"`
	Content    datatypes.JSON `gorm:"type:json" json:"content,omitempty"`
	FileRefs   datatypes.JSON `gorm:"type:json" json:"-"`
	Status     string         `gorm:"size:32;not null;default:PENDING" json:"status"`
	Score      *int           `json:"score"`
	ReviewNote string         `gorm:"size:500" json:"review_note"`
	ReviewedBy *uint          `json:"reviewed_by"`
	ReviewedAt *time.Time     `json:"reviewed_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Task       Task           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Teen       Teen           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

const (
	// SubmissionStatusPending is the initial state before any staff review.
	SubmissionStatusPending = "PENDING"
	// SubmissionStatusApproved marks a submission accepted by a reviewer.
	SubmissionStatusApproved = "APPROVED"
	// SubmissionStatusRejected marks a submission declined by a reviewer.
	SubmissionStatusRejected = "REJECTED"
)

// IsReviewed reports whether a reviewer has recorded a terminal status.
func (s Submission) IsReviewed() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// SetFileRefs serializes the provided reference list into the JSON column.
func (s *Submission) SetFileRefs(refs []string) {
	data, err := json.Marshal(refs)
	if err != nil {
		s.FileRefs = datatypes.JSON([]byte("[]"))
		return
	}
	s.FileRefs = datatypes.JSON(data)
}

// FileRefList deserializes the stored reference list.
func (s Submission) FileRefList() []string {
	if len(s.FileRefs) == 0 {
		return nil
	}

	var refs []string
	if err := json.Unmarshal(s.FileRefs, &refs); err != nil {
		return nil
	}

	return refs
}
