package models

import "time"

// RaffleDraw records the single yearly draw among teens holding every monthly
// badge. The unique index on Year makes a second draw for the same year fail
// at the storage layer even if two requests race past the service check.
type RaffleDraw struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Year         int       `gorm:"not null;uniqueIndex" json:"year"`
	Prize        string    `gorm:"size:255;not null" json:"prize"`
	Description  string    `gorm:"type:text" json:"description"`
	WinnerTeenID uint      `gorm:"not null" json:"winner_teen_id"`
	DrawnAt      time.Time `gorm:"not null" json:"drawn_at"`
	WinnerTeen   Teen      `gorm:"foreignKey:WinnerTeenID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
