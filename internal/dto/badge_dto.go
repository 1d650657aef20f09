package dto

import (
	"time"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// BadgeCreateRequest describes the payload for attaching a badge to a challenge.
type BadgeCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=512"`
	Price       int    `json:"price" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// BadgePurchaseRequest records a teen buying a badge.
type BadgePurchaseRequest struct {
	TeenID uint `json:"teen_id" validate:"required,gt=0"`
}

// BadgeResponse is returned to API clients when viewing badges.
type BadgeResponse struct {
	ID          uint      `json:"id"`
	ChallengeID uint      `json:"challenge_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Price       int       `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBadgeResponse converts a Badge model into a DTO.
func NewBadgeResponse(model models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          model.ID,
		ChallengeID: model.ChallengeID,
		Name:        model.Name,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		Price:       model.Price,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
	}
}
