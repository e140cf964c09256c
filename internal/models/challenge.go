package models

import (
	"time"
)

// DailyChallenge is the shared topic for one UTC calendar day. It is derived
// purely from the wall-clock date and a rotation list; nothing is stored for
// the challenge itself, only participation rows.
type DailyChallenge struct {
	// Date is the calendar day key, formatted 2006-01-02 in UTC.
	Date             string    `json:"date"`
	Topic            string    `json:"topic"`
	CreatedAt        time.Time `json:"createdAt"`
	ParticipantCount int64     `json:"participantCount"`
}

// ChallengeParticipation records that a session took part in a day's
// challenge. The composite unique index makes recording idempotent: a session
// submitting three times to the same day's challenge counts once.
type ChallengeParticipation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Date      string    `gorm:"not null;uniqueIndex:idx_challenge_day_session" json:"date"`
	SessionID string    `gorm:"not null;uniqueIndex:idx_challenge_day_session" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
