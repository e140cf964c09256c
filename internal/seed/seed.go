// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"roastarena/internal/models"
	"roastarena/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumSessions    int
	NumArenas      int
	NumSubmissions int
	ShouldClean    bool
}

var roastTemplates = []string{
	"This setup has more dust than a pharaoh's tomb and half the treasure",
	"The lighting says crime scene, the framing says accident",
	"I've seen thrift store shelves with more intentional composition",
	"That cable management qualifies as modern art, the upsetting kind",
	"Somewhere a photography teacher just felt a disturbance",
	"This photo needs a warranty because something in it is clearly broken",
	"The vibe is 'before picture' with no after in sight",
	"Even the autofocus gave up and honestly, fair",
	"This looks like it was shot on a potato dipped in vaseline",
	"The background is doing more work than the subject and it's still losing",
}

// Seeder populates the database with demo sessions, arenas and roasts.
type Seeder struct {
	db       *gorm.DB
	sessions *service.SessionService
	rng      *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB. Author handles are
// derived with the given salt so seeded data matches what the API would show.
func NewSeeder(db *gorm.DB, sessions *service.SessionService) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:       db,
		sessions: sessions,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded tables. Submissions go first to keep counts coherent
// if the wipe is interrupted.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Submission{},
		&models.ChallengeParticipation{},
		&models.Arena{},
		&models.Session{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedSessions creates n anonymous sessions.
func (s *Seeder) SeedSessions(n int) ([]*models.Session, error) {
	sessions := make([]*models.Session, 0, n)
	for i := 0; i < n; i++ {
		sessions = append(sessions, &models.Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC().Add(-time.Duration(s.rng.Intn(72)) * time.Hour),
		})
	}
	if err := s.db.Create(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to seed sessions: %w", err)
	}
	log.Printf("Seeded %d sessions", len(sessions))
	return sessions, nil
}

// SeedArenas creates n arenas owned by random sessions. Roughly one in five is
// already expired so expiry paths show up in demo data.
func (s *Seeder) SeedArenas(sessions []*models.Session, n int) ([]*models.Arena, error) {
	levels := []models.RoastLevel{models.RoastLevelSoft, models.RoastLevelSpicy, models.RoastLevelSavage}

	arenas := make([]*models.Arena, 0, n)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		owner := sessions[s.rng.Intn(len(sessions))]
		created := now.Add(-time.Duration(s.rng.Intn(20)) * time.Hour)
		expires := created.Add(24 * time.Hour)
		if s.rng.Intn(5) == 0 {
			created = now.Add(-48 * time.Hour)
			expires = created.Add(24 * time.Hour)
		}

		arenas = append(arenas, &models.Arena{
			ID:         uuid.NewString(),
			ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			RoastLevel: levels[s.rng.Intn(len(levels))],
			Caption:    gofakeit.Sentence(s.rng.Intn(6) + 2),
			SessionID:  owner.ID,
			CreatedAt:  created,
			ExpiresAt:  expires,
		})
	}
	if err := s.db.Create(&arenas).Error; err != nil {
		return nil, fmt.Errorf("failed to seed arenas: %w", err)
	}
	log.Printf("Seeded %d arenas", len(arenas))
	return arenas, nil
}

// SeedSubmissions spreads n roasts across the arenas and fixes up each
// arena's roastCount to match.
func (s *Seeder) SeedSubmissions(sessions []*models.Session, arenas []*models.Arena, n int) error {
	counts := make(map[string]int, len(arenas))

	subs := make([]*models.Submission, 0, n)
	for i := 0; i < n; i++ {
		arena := arenas[s.rng.Intn(len(arenas))]
		author := sessions[s.rng.Intn(len(sessions))]

		text := roastTemplates[s.rng.Intn(len(roastTemplates))]
		if s.rng.Intn(3) == 0 {
			text = gofakeit.Sentence(s.rng.Intn(10) + 5)
		}

		subs = append(subs, &models.Submission{
			ID:        uuid.NewString(),
			ArenaID:   arena.ID,
			Text:      text,
			Author:    s.sessions.AuthorHandle(author.ID),
			SessionID: author.ID,
			Score:     s.rng.Intn(100) + 1,
			CreatedAt: arena.CreatedAt.Add(time.Duration(s.rng.Intn(120)) * time.Minute),
		})
		counts[arena.ID]++
	}
	if err := s.db.Create(&subs).Error; err != nil {
		return fmt.Errorf("failed to seed submissions: %w", err)
	}

	for arenaID, count := range counts {
		if err := s.db.Model(&models.Arena{}).Where("id = ?", arenaID).
			UpdateColumn("roast_count", count).Error; err != nil {
			return fmt.Errorf("failed to fix up roast count: %w", err)
		}
	}

	log.Printf("Seeded %d submissions across %d arenas", len(subs), len(counts))
	return nil
}

// SeedParticipation marks every session that roasted today as a daily
// challenge participant.
func (s *Seeder) SeedParticipation(sessions []*models.Session) error {
	date := service.DayKey(time.Now())
	rows := make([]*models.ChallengeParticipation, 0, len(sessions))
	for _, sess := range sessions {
		if s.rng.Intn(2) == 0 {
			continue
		}
		rows = append(rows, &models.ChallengeParticipation{
			Date:      date,
			SessionID: sess.ID,
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed participation: %w", err)
	}
	log.Printf("Seeded %d challenge participants for %s", len(rows), date)
	return nil
}

// Run executes the full seeding pass.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	sessions, err := s.SeedSessions(opts.NumSessions)
	if err != nil {
		return err
	}
	arenas, err := s.SeedArenas(sessions, opts.NumArenas)
	if err != nil {
		return err
	}
	if err := s.SeedSubmissions(sessions, arenas, opts.NumSubmissions); err != nil {
		return err
	}
	return s.SeedParticipation(sessions)
}
