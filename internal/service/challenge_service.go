package service

import (
	"context"
	"time"

	"roastarena/internal/cache"
	"roastarena/internal/models"
	"roastarena/internal/repository"
)

// defaultTopics is the built-in daily challenge rotation. The active topic is
// a pure function of the UTC date, so every instance of the service agrees on
// it without coordination.
var defaultTopics = []string{
	"Your most cursed kitchen gadget",
	"The desk setup you're secretly proud of",
	"Your car's interior, no cleaning allowed",
	"The worst photo on your camera roll",
	"Your fridge, door open, no staging",
	"That one drawer everyone has",
	"Your gym face",
	"The haircut you thought was a good idea",
	"Your pet mid-yawn",
	"Your home office 'ergonomics'",
	"The outfit you almost wore outside",
	"Your gaming battlestation cable management",
	"Breakfast of champions (your actual breakfast)",
	"Your houseplant graveyard",
}

// ChallengeService derives the active daily challenge and aggregates
// participation. Rollover happens at exactly 00:00 UTC: two calls straddling
// midnight see different challenges even seconds apart.
type ChallengeService struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	topics         []string
	now            func() time.Time
}

// NewChallengeService creates a ChallengeService. topics may be nil to use the
// built-in rotation.
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.SubmissionRepository,
	topics []string,
) *ChallengeService {
	if len(topics) == 0 {
		topics = defaultTopics
	}
	return &ChallengeService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		topics:         topics,
		now:            time.Now,
	}
}

// DayKey formats the UTC calendar day key for the given instant.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// topicFor picks the topic for a day by days-since-epoch modulo the rotation
// length. Pure function of the date.
func (s *ChallengeService) topicFor(start time.Time) string {
	days := int(start.Unix() / 86400)
	return s.topics[days%len(s.topics)]
}

// GetCurrentChallenge returns the active challenge for the current UTC day.
func (s *ChallengeService) GetCurrentChallenge(ctx context.Context) (*models.DailyChallenge, error) {
	now := s.now()
	start := dayStart(now)
	date := DayKey(now)

	count, err := s.challengeRepo.CountParticipants(ctx, date)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.DailyChallenge{
		Date:             date,
		Topic:            s.topicFor(start),
		CreatedAt:        start,
		ParticipantCount: count,
	}, nil
}

// RecordParticipation counts a session into the given day's challenge,
// idempotently per (day, session).
func (s *ChallengeService) RecordParticipation(ctx context.Context, date, sessionID string) error {
	return s.challengeRepo.RecordParticipation(ctx, date, sessionID)
}

// dailyTopCacheSize is how many leaderboard rows are cached per day. Smaller
// reads slice the cached list; larger ones go straight to the repository.
const dailyTopCacheSize = 10

// TopOfDay returns the k highest-scored submissions made during the current
// UTC day, across all arenas. The leaderboard is cached briefly; ledger
// appends invalidate it.
func (s *ChallengeService) TopOfDay(ctx context.Context, k int) ([]*models.Submission, error) {
	now := s.now()
	start := dayStart(now)

	if k > dailyTopCacheSize {
		subs, err := s.submissionRepo.ListTopBetween(ctx, start, start.Add(24*time.Hour), k)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return subs, nil
	}

	var subs []*models.Submission
	err := cache.Aside(ctx, cache.DailyKey(DayKey(now)), &subs, cache.DailyTTL, func() error {
		var err error
		subs, err = s.submissionRepo.ListTopBetween(ctx, start, start.Add(24*time.Hour), dailyTopCacheSize)
		return err
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(subs) > k {
		subs = subs[:k]
	}
	return subs, nil
}
