package models

import "time"

// Badge is a purchasable reward tied 1:1 to a challenge. The unique index on
// ChallengeID is the storage-level half of the one-badge-per-challenge rule.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex" json:"challenge_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	Price       int       `gorm:"not null;default:0" json:"price"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeenBadge records a teen's purchase of a badge. It is the unit counted for
// raffle eligibility.
type TeenBadge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeenID      uint      `gorm:"not null;uniqueIndex:idx_teen_badge" json:"teen_id"`
	BadgeID     uint      `gorm:"not null;uniqueIndex:idx_teen_badge" json:"badge_id"`
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`
	Teen        Teen      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Badge       Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
