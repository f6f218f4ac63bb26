package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/database"
	"github.com/alumnet/alumni-backend/internal/logger"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/service"
)

func main() {
	email := flag.String("email", "", "Email of the account to promote")
	flag.Parse()
	if *email == "" {
		fmt.Println("Usage: promote-super-admin -email <address>")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminService := service.NewAdminService(
		repository.NewAccountRepository(pool),
		service.NewBcryptHasher(cfg.BcryptCost),
		log,
	)

	account, err := adminService.PromoteToSuperAdmin(ctx, *email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			fmt.Printf("No account registered with %s\n", *email)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to promote account")
	}

	fmt.Printf("%s (%s) is now %s\n", account.Name, account.Email, account.Role)
}
