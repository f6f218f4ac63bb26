package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/database"
	"github.com/alumnet/alumni-backend/internal/logger"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	adminService := service.NewAdminService(
		repository.NewAccountRepository(pool),
		service.NewBcryptHasher(cfg.BcryptCost),
		log,
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Staff Account ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}

	fmt.Print("Role [admin/super_admin] (default admin): ")
	role, _ := reader.ReadString('\n')
	role = strings.TrimSpace(role)
	if role == "" {
		role = string(model.RoleAdmin)
	}

	fmt.Print("Admin category (optional): ")
	category, _ := reader.ReadString('\n')

	// ─── Logic ─────────────────────────────────────────────────────────
	account, err := adminService.CreateStaff(ctx, model.CreateStaffRequest{
		Name:          strings.TrimSpace(name),
		Email:         strings.TrimSpace(email),
		Password:      string(bytePassword),
		Role:          model.Role(role),
		AdminCategory: strings.TrimSpace(category),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
			return
		}
		log.Fatal().Err(err).Msg("Failed to create staff account")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) created with ID: %s\n", account.Role, account.Name, account.Email, account.ID)
}
