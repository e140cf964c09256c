package service

import (
	"context"
	"testing"
	"time"

	"roastarena/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	t.Parallel()

	utc := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-14", DayKey(utc))

	// Local time east of UTC can already be past local midnight; the key is
	// still the UTC day.
	tokyo := time.FixedZone("JST", 9*3600)
	local := time.Date(2026, 3, 15, 3, 0, 0, 0, tokyo)
	assert.Equal(t, "2026-03-14", DayKey(local))
}

func TestChallengeService_MidnightRollover(t *testing.T) {
	t.Parallel()

	svc := NewChallengeService(noopChallengeRepo(), noopSubmissionRepo(), nil)

	beforeMidnight := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	afterMidnight := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return beforeMidnight }
	before, err := svc.GetCurrentChallenge(context.Background())
	require.NoError(t, err)

	svc.now = func() time.Time { return afterMidnight }
	after, err := svc.GetCurrentChallenge(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-31", before.Date)
	assert.Equal(t, "2026-09-01", after.Date)
	assert.NotEqual(t, before.Topic, after.Topic)
}

func TestChallengeService_TopicStableWithinDay(t *testing.T) {
	t.Parallel()

	svc := NewChallengeService(noopChallengeRepo(), noopSubmissionRepo(), nil)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	var topic string
	for _, offset := range []time.Duration{0, time.Second, 12 * time.Hour, 24*time.Hour - time.Second} {
		instant := day.Add(offset)
		svc.now = func() time.Time { return instant }
		challenge, err := svc.GetCurrentChallenge(context.Background())
		require.NoError(t, err)
		if topic == "" {
			topic = challenge.Topic
		}
		assert.Equal(t, topic, challenge.Topic)
		assert.Equal(t, "2026-08-31", challenge.Date)
	}
}

func TestChallengeService_RotationWrapsAround(t *testing.T) {
	t.Parallel()

	topics := []string{"alpha", "beta", "gamma"}
	svc := NewChallengeService(noopChallengeRepo(), noopSubmissionRepo(), topics)

	day := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var seen []string
	for i := 0; i < len(topics)+1; i++ {
		instant := day.AddDate(0, 0, i)
		svc.now = func() time.Time { return instant }
		challenge, err := svc.GetCurrentChallenge(context.Background())
		require.NoError(t, err)
		seen = append(seen, challenge.Topic)
	}

	// Consecutive days walk the rotation and wrap after its length.
	assert.Equal(t, seen[0], seen[len(topics)])
	assert.NotEqual(t, seen[0], seen[1])
}

func TestChallengeService_ParticipantCount(t *testing.T) {
	t.Parallel()

	repo := noopChallengeRepo()
	repo.countFn = func(_ context.Context, date string) (int64, error) {
		assert.Equal(t, DayKey(time.Now()), date)
		return 42, nil
	}
	svc := NewChallengeService(repo, noopSubmissionRepo(), nil)

	challenge, err := svc.GetCurrentChallenge(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 42, challenge.ParticipantCount)
}

func TestChallengeService_TopOfDay(t *testing.T) {
	t.Parallel()

	subs := noopSubmissionRepo()
	var gotFrom, gotTo time.Time
	subs.listTopBetweenFn = func(_ context.Context, from, to time.Time, k int) ([]*models.Submission, error) {
		gotFrom, gotTo = from, to
		assert.Equal(t, 10, k)
		return []*models.Submission{{ID: "s1"}}, nil
	}
	svc := NewChallengeService(noopChallengeRepo(), subs, nil)

	instant := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return instant }

	top, err := svc.TopOfDay(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), gotTo)
}

// The cached leaderboard holds the full top list; a smaller request is served
// by slicing it, not by a narrower fetch.
func TestChallengeService_TopOfDay_SlicesToRequestedSize(t *testing.T) {
	t.Parallel()

	subs := noopSubmissionRepo()
	subs.listTopBetweenFn = func(_ context.Context, _, _ time.Time, k int) ([]*models.Submission, error) {
		assert.Equal(t, 10, k)
		out := make([]*models.Submission, k)
		for i := range out {
			out[i] = &models.Submission{ID: uuid.NewString()}
		}
		return out, nil
	}
	svc := NewChallengeService(noopChallengeRepo(), subs, nil)

	top, err := svc.TopOfDay(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}
