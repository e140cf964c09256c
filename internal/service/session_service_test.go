package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"roastarena/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateSession(t *testing.T) {
	t.Parallel()

	repo := noopSessionRepo()
	var created *models.Session
	repo.createFn = func(_ context.Context, s *models.Session) error {
		created = s
		return nil
	}

	svc := NewSessionService(repo, "salt")
	session, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, session.ID)

	_, err = uuid.Parse(session.ID)
	assert.NoError(t, err)
	assert.False(t, session.CreatedAt.IsZero())
}

func TestSessionService_CreateSession_Unique(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(noopSessionRepo(), "salt")

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		session, err := svc.CreateSession(context.Background())
		require.NoError(t, err)
		_, dup := seen[session.ID]
		require.False(t, dup, "duplicate session id %s", session.ID)
		seen[session.ID] = struct{}{}
	}
}

func TestSessionService_Validate(t *testing.T) {
	t.Parallel()

	t.Run("known session", func(t *testing.T) {
		t.Parallel()
		svc := NewSessionService(noopSessionRepo(), "salt")
		assert.True(t, svc.Validate(context.Background(), uuid.NewString()))
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		repo := noopSessionRepo()
		repo.existsFn = func(context.Context, string) (bool, error) { return false, nil }
		svc := NewSessionService(repo, "salt")
		assert.False(t, svc.Validate(context.Background(), uuid.NewString()))
	})

	t.Run("malformed id is not an error", func(t *testing.T) {
		t.Parallel()
		repo := noopSessionRepo()
		repo.existsFn = func(context.Context, string) (bool, error) {
			t.Fatal("repo should not be consulted for malformed ids")
			return false, nil
		}
		svc := NewSessionService(repo, "salt")
		assert.False(t, svc.Validate(context.Background(), "not-a-uuid"))
		assert.False(t, svc.Validate(context.Background(), ""))
	})

	t.Run("store failure reads as invalid", func(t *testing.T) {
		t.Parallel()
		repo := noopSessionRepo()
		repo.existsFn = func(context.Context, string) (bool, error) {
			return false, errors.New("connection refused")
		}
		svc := NewSessionService(repo, "salt")
		assert.False(t, svc.Validate(context.Background(), uuid.NewString()))
	})
}

func TestSessionService_AuthorHandle(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(noopSessionRepo(), "salt")
	id := uuid.NewString()

	handle := svc.AuthorHandle(id)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{2}$`), handle)

	// Same session, same handle.
	for i := 0; i < 10; i++ {
		assert.Equal(t, handle, svc.AuthorHandle(id))
	}

	// Handle never leaks the session id.
	assert.NotContains(t, handle, id)

	// A different salt re-labels authors. Individual handles can coincide by
	// chance, so check across a batch of sessions.
	other := NewSessionService(noopSessionRepo(), "other-salt")
	relabeled := false
	for i := 0; i < 20; i++ {
		sid := uuid.NewString()
		if svc.AuthorHandle(sid) != other.AuthorHandle(sid) {
			relabeled = true
			break
		}
	}
	assert.True(t, relabeled)
}
