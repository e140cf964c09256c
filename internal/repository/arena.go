package repository

import (
	"context"

	"roastarena/internal/cache"
	"roastarena/internal/models"

	"gorm.io/gorm"
)

// ArenaRepository defines the interface for arena (roast session) data operations.
// RoastCount is never mutated here directly; it only moves inside the
// submission ledger's append transaction.
type ArenaRepository interface {
	Create(ctx context.Context, arena *models.Arena) error
	GetByID(ctx context.Context, id string) (*models.Arena, error)
}

type arenaRepository struct {
	db *gorm.DB
}

// NewArenaRepository creates a new ArenaRepository.
func NewArenaRepository(db *gorm.DB) ArenaRepository {
	return &arenaRepository{db: db}
}

func (r *arenaRepository) Create(ctx context.Context, arena *models.Arena) error {
	return r.db.WithContext(ctx).Create(arena).Error
}

func (r *arenaRepository) GetByID(ctx context.Context, id string) (*models.Arena, error) {
	var arena models.Arena
	key := cache.ArenaKey(id)

	err := cache.Aside(ctx, key, &arena, cache.ArenaTTL, func() error {
		return r.db.WithContext(ctx).First(&arena, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &arena, nil
}
