package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"roastarena/internal/models"
	"roastarena/internal/moderation"
	"roastarena/internal/observability"
	"roastarena/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionService runs the submit pipeline: session check, arena lookup,
// moderation, atomic ledger append, challenge participation.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	arenaRepo      repository.ArenaRepository
	challengeRepo  repository.ChallengeRepository
	sessions       *SessionService
	gate           moderation.Gate
	now            func() time.Time
}

// SubmitInput carries a candidate roast.
type SubmitInput struct {
	ArenaID   string
	Text      string
	SessionID string
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	arenaRepo repository.ArenaRepository,
	challengeRepo repository.ChallengeRepository,
	sessions *SessionService,
	gate moderation.Gate,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		arenaRepo:      arenaRepo,
		challengeRepo:  challengeRepo,
		sessions:       sessions,
		gate:           gate,
		now:            time.Now,
	}
}

// Submit moderates and appends one roast. Rejected candidates are never
// persisted; accepted ones land in the ledger and bump the arena's roastCount
// in the same transaction.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*models.Submission, error) {
	if strings.TrimSpace(in.Text) == "" {
		observability.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError("Please enter a roast")
	}
	if !s.sessions.Validate(ctx, in.SessionID) {
		observability.SubmissionsTotal.WithLabelValues("invalid_session").Inc()
		return nil, models.NewSessionInvalidError()
	}

	arena, err := s.arenaRepo.GetByID(ctx, in.ArenaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.SubmissionsTotal.WithLabelValues("not_found").Inc()
			return nil, models.NewNotFoundError("Roast session", in.ArenaID)
		}
		return nil, models.NewInternalError(err)
	}

	now := s.now().UTC()
	if arena.Expired(now) {
		observability.SubmissionsTotal.WithLabelValues("expired").Inc()
		return nil, models.NewExpiredError("This roast session has ended")
	}

	verdict, err := s.gate.EvaluateText(ctx, in.Text, string(arena.RoastLevel))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !verdict.Accepted {
		observability.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewModerationRejectedError(verdict.Reason)
	}

	sub := &models.Submission{
		ID:        uuid.NewString(),
		ArenaID:   arena.ID,
		Text:      strings.TrimSpace(in.Text),
		Author:    s.sessions.AuthorHandle(in.SessionID),
		SessionID: in.SessionID,
		Score:     verdict.Score,
		CreatedAt: now,
	}

	if err := s.submissionRepo.Append(ctx, sub); err != nil {
		switch {
		case errors.Is(err, repository.ErrArenaExpired):
			// The window closed between the pre-check and the locked append.
			observability.SubmissionsTotal.WithLabelValues("expired").Inc()
			return nil, models.NewExpiredError("This roast session has ended")
		case errors.Is(err, gorm.ErrRecordNotFound):
			observability.SubmissionsTotal.WithLabelValues("not_found").Inc()
			return nil, models.NewNotFoundError("Roast session", in.ArenaID)
		default:
			return nil, models.NewInternalError(err)
		}
	}

	observability.SubmissionsTotal.WithLabelValues("accepted").Inc()

	// Participation is best-effort: a counter hiccup must not fail the submit.
	if err := s.challengeRepo.RecordParticipation(ctx, DayKey(now), in.SessionID); err != nil {
		slog.WarnContext(ctx, "failed to record challenge participation", "err", err)
	}

	return sub, nil
}

// ListTop returns the k highest-scored submissions of an arena.
func (s *SubmissionService) ListTop(ctx context.Context, arenaID string, k int) ([]*models.Submission, error) {
	if _, err := s.arenaLookup(ctx, arenaID); err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.ListTop(ctx, arenaID, k)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

// ListRecent returns a page of an arena's submissions, newest first.
func (s *SubmissionService) ListRecent(ctx context.Context, arenaID string, offset, limit int) ([]*models.Submission, error) {
	if _, err := s.arenaLookup(ctx, arenaID); err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.ListRecent(ctx, arenaID, offset, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (s *SubmissionService) arenaLookup(ctx context.Context, arenaID string) (*models.Arena, error) {
	arena, err := s.arenaRepo.GetByID(ctx, arenaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Roast session", arenaID)
		}
		return nil, models.NewInternalError(err)
	}
	return arena, nil
}
