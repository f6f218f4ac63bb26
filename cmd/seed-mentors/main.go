package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/database"
	"github.com/alumnet/alumni-backend/internal/logger"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

var (
	companies = []string{"Systems Ltd", "Careem", "Arbisoft", "NetSol", "10Pearls"}
	positions = []string{"Senior Engineer", "Engineering Manager", "Data Scientist", "Product Manager", "Staff Engineer"}
	skillSets = []string{
		"Go, PostgreSQL, Distributed Systems",
		"Python, Machine Learning, Statistics",
		"React, TypeScript, Design Systems",
		"Cloud, Kubernetes, Terraform",
		"Product Strategy, Leadership, Agile",
	}
	cities = []string{"Karachi", "Lahore", "Islamabad", "Dubai", "Toronto"}
)

func main() {
	count := flag.Int("count", 20, "Number of mentor accounts to create")
	password := flag.String("password", "Mentor123", "Password for every seeded account")
	flag.Parse()

	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	accountService := service.NewAccountService(
		repository.NewAccountRepository(pool),
		service.NewBcryptHasher(cfg.BcryptCost),
		log,
	)

	fmt.Printf("=== Seeding %d Mentors ===\n", *count)

	created, skipped := 0, 0
	for i := 1; i <= *count; i++ {
		reg := model.AlumniRegistration{
			RegistrationBase: model.RegistrationBase{
				Name:     fmt.Sprintf("Mentor %02d", i),
				Email:    fmt.Sprintf("mentor%02d@alumni.example.com", i),
				Password: *password,
			},
			GradSeason: model.SeasonSpring,
			GradYear:   2012 + i%10,
		}

		account, err := accountService.Register(ctx, reg)
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("email", reg.Email).Msg("Failed to register mentor")
		}

		k := i % len(companies)
		years := model.MentorExperienceYears + i%8
		if _, err := accountService.UpdateProfile(ctx, account.ID, model.ProfileUpdate{
			CurrentCompany:  &companies[k],
			Position:        &positions[k],
			Skills:          &skillSets[k],
			Location:        &cities[k],
			ExperienceYears: &years,
		}); err != nil {
			log.Fatal().Err(err).Str("email", reg.Email).Msg("Failed to fill mentor profile")
		}
		created++
	}

	fmt.Printf("Done. Created %d, skipped %d existing.\n", created, skipped)
}
