package dto

import (
	"encoding/json"
	"time"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// TaskCreateRequest describes the payload for authoring a task. Options is
// passed through verbatim to the schema registry, which owns its shape.
type TaskCreateRequest struct {
	ChallengeID    uint            `json:"challenge_id" validate:"required,gt=0"`
	Tab            string          `json:"tab" validate:"omitempty,max=64"`
	Title          string          `json:"title" validate:"required,min=3,max=255"`
	Description    string          `json:"description"`
	TaskType       string          `json:"task_type" validate:"required"`
	Options        json.RawMessage `json:"options"`
	IsRequired     bool            `json:"is_required"`
	CompletionRule string          `json:"completion_rule"`
	MaxScore       *int            `json:"max_score" validate:"omitempty,gte=0"`
	DueDate        *time.Time      `json:"due_date"`
}

// TaskUpdateRequest describes a task edit. The task type is fixed at
// creation; edits only reshape metadata and options.
type TaskUpdateRequest struct {
	Tab            *string         `json:"tab" validate:"omitempty,max=64"`
	Title          *string         `json:"title" validate:"omitempty,min=3,max=255"`
	Description    *string         `json:"description"`
	Options        json.RawMessage `json:"options"`
	IsRequired     *bool           `json:"is_required"`
	CompletionRule *string         `json:"completion_rule"`
	MaxScore       *int            `json:"max_score" validate:"omitempty,gte=0"`
	DueDate        *time.Time      `json:"due_date"`
}

// TaskResponse is returned to API clients when viewing tasks.
type TaskResponse struct {
	ID             uint            `json:"id"`
	ChallengeID    uint            `json:"challenge_id"`
	Tab            string          `json:"tab"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TaskType       string          `json:"task_type"`
	Options        json.RawMessage `json:"options,omitempty"`
	IsRequired     bool            `json:"is_required"`
	CompletionRule string          `json:"completion_rule"`
	MaxScore       int             `json:"max_score"`
	DueDate        *time.Time      `json:"due_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewTaskResponse converts a Task model into a DTO.
func NewTaskResponse(model models.Task) TaskResponse {
	return TaskResponse{
		ID:             model.ID,
		ChallengeID:    model.ChallengeID,
		Tab:            model.Tab,
		Title:          model.Title,
		Description:    model.Description,
		TaskType:       model.TaskType,
		Options:        json.RawMessage(model.Options),
		IsRequired:     model.IsRequired,
		CompletionRule: model.CompletionRule,
		MaxScore:       model.EffectiveMaxScore(),
		DueDate:        model.DueDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
