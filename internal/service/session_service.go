package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"roastarena/internal/models"
	"roastarena/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// SessionService issues and validates anonymous sessions and derives the
// pseudonymous author handles shown next to roasts.
type SessionService struct {
	repo repository.SessionRepository
	salt string
}

// NewSessionService creates a SessionService. salt keys the handle derivation;
// rotating it re-labels every author without touching stored sessions.
func NewSessionService(repo repository.SessionRepository, salt string) *SessionService {
	return &SessionService{repo: repo, salt: salt}
}

// CreateSession issues a new anonymous session. IDs are UUIDv4, so they are
// crypto-random and non-enumerable; no two calls can collide in practice.
func (s *SessionService) CreateSession(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, models.NewInternalError(err)
	}
	return session, nil
}

// Validate reports whether the id belongs to a known session. It never returns
// an error for malformed input: an unparseable token is simply not a session.
func (s *SessionService) Validate(ctx context.Context, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false
	}
	return ok
}

// handle word lists. Two bytes of the digest pick the adjective and noun, two
// more the numeric suffix, so a session always maps to the same handle.
var (
	handleAdjectives = []string{
		"Crispy", "Smoky", "Spicy", "Toasted", "Charred", "Sizzling", "Blazing",
		"Flaming", "Scorched", "Peppery", "Fiery", "Grilled", "Seared", "Zesty",
		"Smoldering", "Roasted",
	}
	handleNouns = []string{
		"Falcon", "Badger", "Wombat", "Jalapeno", "Comet", "Walrus", "Cactus",
		"Penguin", "Raptor", "Mongoose", "Habanero", "Phoenix", "Otter", "Viper",
		"Marmot", "Gecko",
	}
)

// AuthorHandle derives the pseudonymous handle for a session id. The raw
// session id never appears on the wire; only this derived name does.
func (s *SessionService) AuthorHandle(sessionID string) string {
	digest := blake2b.Sum256([]byte(s.salt + ":" + sessionID))
	adj := handleAdjectives[int(digest[0])%len(handleAdjectives)]
	noun := handleNouns[int(digest[1])%len(handleNouns)]
	num := binary.BigEndian.Uint16(digest[2:4]) % 100
	return fmt.Sprintf("%s%s%02d", adj, noun, num)
}
