package models

import (
	"time"
)

// RoastLevel is the declared intensity tier set at upload time.
type RoastLevel string

const (
	RoastLevelSoft   RoastLevel = "soft"
	RoastLevelSpicy  RoastLevel = "spicy"
	RoastLevelSavage RoastLevel = "savage"
)

// ValidRoastLevel reports whether the given string is a known roast level.
func ValidRoastLevel(level string) bool {
	switch RoastLevel(level) {
	case RoastLevelSoft, RoastLevelSpicy, RoastLevelSavage:
		return true
	}
	return false
}

// Arena is a single roast session tied to one uploaded image. After ExpiresAt
// it becomes read-only for new submissions but remains browsable and shareable.
type Arena struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	ImageURL   string     `gorm:"not null" json:"imageUrl"`
	RoastLevel RoastLevel `gorm:"not null" json:"roastLevel"`
	Caption    string     `json:"caption"`
	// SessionID attributes the upload; never exposed on the wire.
	SessionID string `gorm:"not null;index" json:"-"`
	// RoastCount equals the number of accepted submissions for this arena.
	// It is only ever incremented in the same transaction as a ledger append.
	RoastCount int       `gorm:"not null;default:0" json:"roastCount"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `gorm:"index" json:"expiresAt"`
}

// Expired reports whether the arena no longer accepts submissions at the given instant.
func (a *Arena) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
