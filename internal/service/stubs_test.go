package service

import (
	"context"
	"time"

	"roastarena/internal/models"
	"roastarena/internal/moderation"
)

// Stubs shared by the service tests in this package. Each defaults to a
// permissive no-op; tests override the function fields they care about.

type sessionRepoStub struct {
	createFn func(ctx context.Context, session *models.Session) error
	existsFn func(ctx context.Context, id string) (bool, error)
}

func noopSessionRepo() *sessionRepoStub {
	return &sessionRepoStub{
		createFn: func(context.Context, *models.Session) error { return nil },
		existsFn: func(context.Context, string) (bool, error) { return true, nil },
	}
}

func (s *sessionRepoStub) Create(ctx context.Context, session *models.Session) error {
	return s.createFn(ctx, session)
}

func (s *sessionRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	return s.existsFn(ctx, id)
}

type arenaRepoStub struct {
	createFn  func(ctx context.Context, arena *models.Arena) error
	getByIDFn func(ctx context.Context, id string) (*models.Arena, error)
}

func noopArenaRepo() *arenaRepoStub {
	return &arenaRepoStub{
		createFn: func(context.Context, *models.Arena) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Arena, error) {
			return &models.Arena{
				ID:         id,
				RoastLevel: models.RoastLevelSpicy,
				CreatedAt:  time.Now().UTC().Add(-time.Hour),
				ExpiresAt:  time.Now().UTC().Add(23 * time.Hour),
			}, nil
		},
	}
}

func (s *arenaRepoStub) Create(ctx context.Context, arena *models.Arena) error {
	return s.createFn(ctx, arena)
}

func (s *arenaRepoStub) GetByID(ctx context.Context, id string) (*models.Arena, error) {
	return s.getByIDFn(ctx, id)
}

type submissionRepoStub struct {
	appendFn         func(ctx context.Context, sub *models.Submission) error
	listTopFn        func(ctx context.Context, arenaID string, k int) ([]*models.Submission, error)
	listRecentFn     func(ctx context.Context, arenaID string, offset, limit int) ([]*models.Submission, error)
	listTopBetweenFn func(ctx context.Context, from, to time.Time, k int) ([]*models.Submission, error)
}

func noopSubmissionRepo() *submissionRepoStub {
	return &submissionRepoStub{
		appendFn: func(context.Context, *models.Submission) error { return nil },
		listTopFn: func(context.Context, string, int) ([]*models.Submission, error) {
			return nil, nil
		},
		listRecentFn: func(context.Context, string, int, int) ([]*models.Submission, error) {
			return nil, nil
		},
		listTopBetweenFn: func(context.Context, time.Time, time.Time, int) ([]*models.Submission, error) {
			return nil, nil
		},
	}
}

func (s *submissionRepoStub) Append(ctx context.Context, sub *models.Submission) error {
	return s.appendFn(ctx, sub)
}

func (s *submissionRepoStub) ListTop(ctx context.Context, arenaID string, k int) ([]*models.Submission, error) {
	return s.listTopFn(ctx, arenaID, k)
}

func (s *submissionRepoStub) ListRecent(ctx context.Context, arenaID string, offset, limit int) ([]*models.Submission, error) {
	return s.listRecentFn(ctx, arenaID, offset, limit)
}

func (s *submissionRepoStub) ListTopBetween(ctx context.Context, from, to time.Time, k int) ([]*models.Submission, error) {
	return s.listTopBetweenFn(ctx, from, to, k)
}

type challengeRepoStub struct {
	recordFn func(ctx context.Context, date, sessionID string) error
	countFn  func(ctx context.Context, date string) (int64, error)
}

func noopChallengeRepo() *challengeRepoStub {
	return &challengeRepoStub{
		recordFn: func(context.Context, string, string) error { return nil },
		countFn:  func(context.Context, string) (int64, error) { return 0, nil },
	}
}

func (s *challengeRepoStub) RecordParticipation(ctx context.Context, date, sessionID string) error {
	return s.recordFn(ctx, date, sessionID)
}

func (s *challengeRepoStub) CountParticipants(ctx context.Context, date string) (int64, error) {
	return s.countFn(ctx, date)
}

type gateStub struct {
	textFn  func(ctx context.Context, text, roastLevel string) (moderation.TextResult, error)
	imageFn func(ctx context.Context, data []byte, mimeType string) (moderation.ImageResult, error)
}

func acceptAllGate() *gateStub {
	return &gateStub{
		textFn: func(context.Context, string, string) (moderation.TextResult, error) {
			return moderation.TextResult{Accepted: true, Score: 50}, nil
		},
		imageFn: func(context.Context, []byte, string) (moderation.ImageResult, error) {
			return moderation.ImageResult{Accepted: true}, nil
		},
	}
}

func (s *gateStub) EvaluateText(ctx context.Context, text, roastLevel string) (moderation.TextResult, error) {
	return s.textFn(ctx, text, roastLevel)
}

func (s *gateStub) EvaluateImage(ctx context.Context, data []byte, mimeType string) (moderation.ImageResult, error) {
	return s.imageFn(ctx, data, mimeType)
}
