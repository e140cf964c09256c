package repository

import (
	"context"

	"roastarena/internal/cache"
	"roastarena/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeRepository tracks daily challenge participation.
type ChallengeRepository interface {
	// RecordParticipation is idempotent per (date, session): a session
	// submitting three times to the same day's challenge counts once.
	RecordParticipation(ctx context.Context, date, sessionID string) error
	CountParticipants(ctx context.Context, date string) (int64, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new ChallengeRepository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) RecordParticipation(ctx context.Context, date, sessionID string) error {
	row := &models.ChallengeParticipation{
		Date:      date,
		SessionID: sessionID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		return err
	}

	cache.Invalidate(ctx, cache.DailyCountKey(date))
	return nil
}

func (r *challengeRepository) CountParticipants(ctx context.Context, date string) (int64, error) {
	var count int64
	key := cache.DailyCountKey(date)

	err := cache.Aside(ctx, key, &count, cache.DailyTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.ChallengeParticipation{}).
			Where("date = ?", date).
			Count(&count).Error
	})
	return count, err
}
