package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"roastarena/internal/models"
	"roastarena/internal/moderation"
	"roastarena/internal/observability"
	"roastarena/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArenaService creates and serves arenas (roast sessions).
type ArenaService struct {
	arenaRepo     repository.ArenaRepository
	challengeRepo repository.ChallengeRepository
	sessions      *SessionService
	images        *ImageService
	gate          moderation.Gate
	window        time.Duration
	now           func() time.Time
}

// CreateArenaInput carries everything the upload endpoint collected.
type CreateArenaInput struct {
	ImageBytes  []byte
	ContentType string
	RoastLevel  string
	Caption     string
	Consent     bool
	SessionID   string
}

// NewArenaService creates an ArenaService. window is how long a new arena
// accepts submissions.
func NewArenaService(
	arenaRepo repository.ArenaRepository,
	challengeRepo repository.ChallengeRepository,
	sessions *SessionService,
	images *ImageService,
	gate moderation.Gate,
	window time.Duration,
) *ArenaService {
	return &ArenaService{
		arenaRepo:     arenaRepo,
		challengeRepo: challengeRepo,
		sessions:      sessions,
		images:        images,
		gate:          gate,
		window:        window,
		now:           time.Now,
	}
}

// CreateArena validates the upload, passes the image through the moderation
// gate, stores it and opens a new arena.
func (s *ArenaService) CreateArena(ctx context.Context, in CreateArenaInput) (*models.Arena, error) {
	if len(in.ImageBytes) == 0 {
		return nil, models.NewValidationError("Please select an image")
	}
	if !in.Consent {
		return nil, models.NewValidationError("Please accept the consent agreement")
	}
	if !models.ValidRoastLevel(in.RoastLevel) {
		return nil, models.NewValidationError("Unknown roast level")
	}
	if !s.sessions.Validate(ctx, in.SessionID) {
		return nil, models.NewSessionInvalidError()
	}
	if len(in.Caption) > 200 {
		return nil, models.NewValidationError("Caption too long (max 200 characters)")
	}

	verdict, err := s.gate.EvaluateImage(ctx, in.ImageBytes, in.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !verdict.Accepted {
		return nil, models.NewModerationRejectedError(verdict.Reason)
	}

	stored, err := s.images.Store(in.ImageBytes, in.ContentType)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	arena := &models.Arena{
		ID:         uuid.NewString(),
		ImageURL:   s.images.PublicURL(stored),
		RoastLevel: models.RoastLevel(in.RoastLevel),
		Caption:    in.Caption,
		SessionID:  in.SessionID,
		RoastCount: 0,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.window),
	}
	if err := s.arenaRepo.Create(ctx, arena); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ArenasCreated.WithLabelValues(in.RoastLevel).Inc()

	// Uploading counts toward today's challenge. Participation is best-effort:
	// a counter hiccup must not fail the upload.
	if err := s.challengeRepo.RecordParticipation(ctx, DayKey(now), in.SessionID); err != nil {
		slog.WarnContext(ctx, "failed to record challenge participation", "err", err)
	}

	return arena, nil
}

// GetArena fetches an arena by id. Expired arenas are still returned: they
// stay browsable and shareable, only new submissions are rejected.
func (s *ArenaService) GetArena(ctx context.Context, id string) (*models.Arena, error) {
	arena, err := s.arenaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Roast session", id)
		}
		return nil, models.NewInternalError(err)
	}
	return arena, nil
}
