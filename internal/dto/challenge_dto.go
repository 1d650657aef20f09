package dto

import (
	"time"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// ChallengeCreateRequest describes the payload for creating a monthly challenge.
type ChallengeCreateRequest struct {
	Year        int        `json:"year" validate:"required,gte=2000,lte=2100"`
	Month       int        `json:"month" validate:"required,gte=1,lte=12"`
	Title       string     `json:"title" validate:"required,min=3,max=255"`
	Theme       string     `json:"theme" validate:"omitempty,max=255"`
	Description string     `json:"description"`
	GoLiveDate  *time.Time `json:"go_live_date"`
	ClosingDate *time.Time `json:"closing_date"`
}

// ChallengeFilter describes query string filters for listing challenges.
type ChallengeFilter struct {
	Year  int  `query:"year"`
	Month *int `query:"month" validate:"omitempty,gte=1,lte=12"`
}

// ChallengeResponse is returned to API clients when viewing challenges.
type ChallengeResponse struct {
	ID            uint           `json:"id"`
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	Title         string         `json:"title"`
	Theme         string         `json:"theme"`
	Description   string         `json:"description"`
	IsPublished   bool           `json:"is_published"`
	IsActive      bool           `json:"is_active"`
	DisplayStatus string         `json:"display_status"`
	GoLiveDate    *time.Time     `json:"go_live_date"`
	ClosingDate   *time.Time     `json:"closing_date"`
	Badge         *BadgeResponse `json:"badge,omitempty"`
	TaskCount     int            `json:"task_count"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewChallengeResponse converts a Challenge model into a DTO.
func NewChallengeResponse(model models.Challenge, reference time.Time) ChallengeResponse {
	response := ChallengeResponse{
		ID:            model.ID,
		Year:          model.Year,
		Month:         model.Month,
		Title:         model.Title,
		Theme:         model.Theme,
		Description:   model.Description,
		IsPublished:   model.IsPublished,
		IsActive:      model.IsActive,
		DisplayStatus: model.DisplayStatus(reference),
		GoLiveDate:    model.GoLiveDate,
		ClosingDate:   model.ClosingDate,
		TaskCount:     len(model.Tasks),
		CreatedAt:     model.CreatedAt,
	}

	if model.HasBadge() {
		badge := NewBadgeResponse(*model.Badge)
		response.Badge = &badge
	}

	return response
}
