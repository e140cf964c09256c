// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Session is an anonymous session issued on first visit. The id is an opaque
// crypto-random token held by the client and passed explicitly with every
// mutating call; it is the only identity the service knows about.
type Session struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
