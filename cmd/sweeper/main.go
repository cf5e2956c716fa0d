package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"dealercrm/internal/config"
	"dealercrm/internal/database"
	"dealercrm/internal/modules/sweeper"
	"dealercrm/internal/repository"
)

// One-shot sweep for cron. The HTTP trigger on the api binary runs the
// same service; this exists for schedulers that exec a binary instead.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := sweeper.NewService(
		repository.NewCompanyRepository(db),
		repository.NewTeamMemberRepository(db),
		repository.NewLeadRepository(db),
		cfg.Location(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	log.Printf("sweep completed: companies=%d closed=%d reassigned=%d lost_races=%d errors=%d",
		summary.Companies, summary.CompaniesClosed, summary.Reassigned, summary.LostRaces, summary.Errors)
}
