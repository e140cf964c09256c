// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"roastarena/internal/cache"
	"roastarena/internal/models"

	"gorm.io/gorm"
)

// SessionRepository defines the interface for anonymous session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Exists(ctx context.Context, id string) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var session models.Session
	key := cache.SessionKey(id)

	err := cache.Aside(ctx, key, &session, cache.SessionTTL, func() error {
		return r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
