// File: cmd/seed/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"compta-billing-platform/internal/config"
	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	pg "compta-billing-platform/internal/infra/db/postgres"
	"compta-billing-platform/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))
	userUC := usecase.NewUserUseCase(pg.NewUserRepo(pool))

	// ---- Plans ----
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (espace=%d MB, prix=%.2f EUR)\n", p.Name, p.MaxSpaceMB, p.Price)
		}
	} else {
		seed := []struct {
			Name    string
			SpaceMB int64
			Price   float64
		}{
			{"Basique", 512, 120},
			{"Standard", 2048, 290},
			{"Premium", 10240, 690},
		}
		for _, s := range seed {
			p, err := planUC.Create(ctx, s.Name, s.SpaceMB, s.Price)
			if err != nil {
				log.Fatalf("create plan %q: %v", s.Name, err)
			}
			fmt.Printf("seeded: %s (id=%s, espace=%d MB, prix=%.2f EUR)\n", p.Name, p.ID, p.MaxSpaceMB, p.Price)
		}
	}

	// ---- Admin account ----
	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set; skipping admin account.")
		return
	}
	u, err := userUC.Register(ctx, adminEmail, adminPassword, model.RoleAdmin, "")
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		fmt.Printf("admin %s already present. No changes.\n", adminEmail)
	case err != nil:
		log.Fatalf("create admin: %v", err)
	default:
		fmt.Printf("seeded admin: %s (id=%s)\n", u.Email, u.ID)
	}

	fmt.Println("Seeding complete.")
}
