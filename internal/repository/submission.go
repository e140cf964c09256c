package repository

import (
	"context"
	"errors"
	"time"

	"roastarena/internal/cache"
	"roastarena/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrArenaExpired is returned by Append when the arena's submission window has
// closed. The check happens under the arena row lock so a submission can never
// slip in alongside the expiry boundary.
var ErrArenaExpired = errors.New("arena submission window has closed")

// SubmissionRepository is the append-only ledger of accepted roasts.
type SubmissionRepository interface {
	// Append stores an accepted submission and increments the arena's
	// roast_count in the same transaction. Concurrent appends to one arena
	// serialize on the arena row; appends to different arenas do not contend.
	Append(ctx context.Context, sub *models.Submission) error
	ListTop(ctx context.Context, arenaID string, k int) ([]*models.Submission, error)
	ListRecent(ctx context.Context, arenaID string, offset, limit int) ([]*models.Submission, error)
	// ListTopBetween returns the highest-scored submissions created in
	// [from, to), across all arenas. Used for the daily leaderboard.
	ListTopBetween(ctx context.Context, from, to time.Time, k int) ([]*models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Append(ctx context.Context, sub *models.Submission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var arena models.Arena
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&arena, "id = ?", sub.ArenaID).Error; err != nil {
			return err
		}

		if arena.Expired(time.Now().UTC()) {
			return ErrArenaExpired
		}

		if err := tx.Create(sub).Error; err != nil {
			return err
		}

		return tx.Model(&models.Arena{}).
			Where("id = ?", sub.ArenaID).
			UpdateColumn("roast_count", gorm.Expr("roast_count + 1")).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidateArena(ctx, sub.ArenaID)
	cache.InvalidateDaily(ctx, sub.CreatedAt.UTC().Format("2006-01-02"))
	return nil
}

// topFeedCacheSize is how many top rows are cached per arena. Smaller reads
// slice the cached list; larger ones go straight to the database.
const topFeedCacheSize = 100

func (r *submissionRepository) ListTop(ctx context.Context, arenaID string, k int) ([]*models.Submission, error) {
	if k > topFeedCacheSize {
		return r.listTop(ctx, arenaID, k)
	}

	var subs []*models.Submission
	err := cache.Aside(ctx, cache.FeedTopKey(arenaID), &subs, cache.FeedTopTTL, func() error {
		var err error
		subs, err = r.listTop(ctx, arenaID, topFeedCacheSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(subs) > k {
		subs = subs[:k]
	}
	return subs, nil
}

func (r *submissionRepository) listTop(ctx context.Context, arenaID string, k int) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Where("arena_id = ?", arenaID).
		// Ties break on creation time, then id, so ordering is stable and
		// deterministic for equal scores.
		Order("score DESC, created_at ASC, id ASC").
		Limit(k).
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) ListRecent(ctx context.Context, arenaID string, offset, limit int) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Where("arena_id = ?", arenaID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) ListTopBetween(ctx context.Context, from, to time.Time, k int) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("score DESC, created_at ASC, id ASC").
		Limit(k).
		Find(&subs).Error
	return subs, err
}
