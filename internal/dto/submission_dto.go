package dto

import (
	"encoding/json"
	"time"

	"github.com/brightpath-mentorship/console-api/internal/models"
	"github.com/brightpath-mentorship/console-api/internal/taskschema"
)

// SubmissionCreateRequest describes a teen's submission payload.
type SubmissionCreateRequest struct {
	TaskID   uint            `json:"task_id" validate:"required,gt=0"`
	TeenID   uint            `json:"teen_id" validate:"required,gt=0"`
	Content  json.RawMessage `json:"content"`
	FileRefs []string        `json:"file_refs" validate:"omitempty,dive,max=512"`
}

// ReviewRequest describes a staff review action. Status is always required;
// score and note are partial-update fields that preserve prior values when
// omitted.
type ReviewRequest struct {
	Status     string  `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Score      *int    `json:"score"`
	ReviewNote *string `json:"review_note"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID         uint                        `json:"id"`
	TaskID     uint                        `json:"task_id"`
	TeenID     uint                        `json:"teen_id"`
	Content    json.RawMessage             `json:"content,omitempty"`
	Canonical  *taskschema.CanonicalContent `json:"canonical,omitempty"`
	FileRefs   []string                    `json:"file_refs,omitempty"`
	Status     string                      `json:"status"`
	Score      *int                        `json:"score"`
	ReviewNote string                      `json:"review_note"`
	ReviewedBy *uint                       `json:"reviewed_by"`
	ReviewedAt *time.Time                  `json:"reviewed_at"`
	CreatedAt  time.Time                   `json:"created_at"`
	Task       TaskLite                    `json:"task"`
	Teen       TeenLite                    `json:"teen"`
}

// TaskLite summarizes a task in submission responses.
type TaskLite struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	TaskType   string `json:"task_type"`
	MaxScore   int    `json:"max_score"`
	IsRequired bool   `json:"is_required"`
}

// TeenLite summarizes a teen without exposing full profile data.
type TeenLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO. The canonical
// decomposition is attached when the content interprets cleanly; a malformed
// stored document degrades to the raw payload rather than failing the read.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:         model.ID,
		TaskID:     model.TaskID,
		TeenID:     model.TeenID,
		Content:    json.RawMessage(model.Content),
		FileRefs:   model.FileRefList(),
		Status:     model.Status,
		Score:      model.Score,
		ReviewNote: model.ReviewNote,
		ReviewedBy: model.ReviewedBy,
		ReviewedAt: model.ReviewedAt,
		CreatedAt:  model.CreatedAt,
		Task: TaskLite{
			ID:         model.Task.ID,
			Title:      model.Task.Title,
			TaskType:   model.Task.TaskType,
			MaxScore:   model.Task.EffectiveMaxScore(),
			IsRequired: model.Task.IsRequired,
		},
		Teen: TeenLite{
			ID:    model.Teen.ID,
			Name:  model.Teen.Name,
			Email: model.Teen.Email,
		},
	}

	if canonical, err := taskschema.ValidateContent(taskschema.TaskType(model.Task.TaskType), model.Content); err == nil {
		response.Canonical = &canonical
	}

	return response
}
