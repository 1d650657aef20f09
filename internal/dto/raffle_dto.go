package dto

import (
	"time"

	"github.com/brightpath-mentorship/console-api/internal/models"
)

// RaffleDrawRequest describes the payload for recording a yearly draw.
type RaffleDrawRequest struct {
	Prize       string `json:"prize" validate:"required,min=2,max=255"`
	Description string `json:"description"`
}

// RaffleDrawResponse serializes a recorded draw.
type RaffleDrawResponse struct {
	ID           uint      `json:"id"`
	Year         int       `json:"year"`
	Prize        string    `json:"prize"`
	Description  string    `json:"description"`
	WinnerTeenID uint      `json:"winner_teen_id"`
	WinnerName   string    `json:"winner_name,omitempty"`
	DrawnAt      time.Time `json:"drawn_at"`
}

// RaffleEligibilityResponse lists the teens qualified for a year's draw.
type RaffleEligibilityResponse struct {
	Year          int                 `json:"year"`
	EligibleCount int                 `json:"eligible_count"`
	EligibleTeens []TeenLite          `json:"eligible_teens"`
	RaffleDraw    *RaffleDrawResponse `json:"raffle_draw,omitempty"`
}

// NewRaffleDrawResponse converts a RaffleDraw model into a DTO.
func NewRaffleDrawResponse(model models.RaffleDraw) RaffleDrawResponse {
	return RaffleDrawResponse{
		ID:           model.ID,
		Year:         model.Year,
		Prize:        model.Prize,
		Description:  model.Description,
		WinnerTeenID: model.WinnerTeenID,
		WinnerName:   model.WinnerTeen.Name,
		DrawnAt:      model.DrawnAt,
	}
}
