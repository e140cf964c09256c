package models

import (
	"time"
)

// Submission is one accepted roast in an arena's ledger. Rejected candidates
// are never persisted. Submissions are immutable once accepted.
type Submission struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	ArenaID string `gorm:"not null;index:idx_submissions_arena_created;index:idx_submissions_arena_score" json:"-"`
	Text    string `gorm:"type:text;not null" json:"text"`
	// Author is a pseudonymous handle derived from the submitter's session,
	// never the raw session id.
	Author string `gorm:"not null" json:"author"`
	// SessionID attributes the submission internally; never exposed on the wire.
	SessionID string `gorm:"not null;index" json:"-"`
	// Score is the creativity score assigned by the moderation gate (0-100).
	Score     int       `gorm:"not null;index:idx_submissions_arena_score" json:"score"`
	CreatedAt time.Time `gorm:"index:idx_submissions_arena_created" json:"createdAt"`
}
