// Command main runs the database seeder for the roast arena backend.
package main

import (
	"flag"
	"log"

	"roastarena/internal/config"
	"roastarena/internal/database"
	"roastarena/internal/repository"
	"roastarena/internal/seed"
	"roastarena/internal/service"
)

func main() {
	numSessions := flag.Int("sessions", 40, "Number of anonymous sessions to create")
	numArenas := flag.Int("arenas", 25, "Number of roast sessions to create")
	numSubmissions := flag.Int("roasts", 300, "Number of roasts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d sessions, %d arenas, %d roasts, clean=%v\n",
		*numSessions, *numArenas, *numSubmissions, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sessions := service.NewSessionService(
		repository.NewSessionRepository(database.DB), cfg.AuthorSalt)

	s := seed.NewSeeder(database.DB, sessions)
	if err := s.Run(seed.Options{
		NumSessions:    *numSessions,
		NumArenas:      *numArenas,
		NumSubmissions: *numSubmissions,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with demo roast data.")
}
