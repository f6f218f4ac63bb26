package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/database"
	"github.com/alumnet/alumni-backend/internal/handler"
	"github.com/alumnet/alumni-backend/internal/logger"
	"github.com/alumnet/alumni-backend/internal/middleware"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/router"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
	"github.com/alumnet/alumni-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("env", cfg.AppEnv).
		Bool("linkedin", cfg.LinkedIn.Enabled()).
		Msg("Starting Alumni Network Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Apply Migrations ──────────────────────────────────────────────
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open migrator")
	}
	if err := migrator.Up(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	if err := migrator.Close(); err != nil {
		log.Warn().Err(err).Msg("Migrator close failed")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	mentorshipRepo := repository.NewMentorshipRepository(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	accountService := service.NewAccountService(accountRepo, hasher, log)
	authService := service.NewAuthService(cfg, accountRepo, hasher, log)
	mentorshipService := service.NewMentorshipService(accountRepo, mentorshipRepo, service.NewQueuePublisher(rdb), log)
	notificationService := service.NewNotificationService(notificationRepo)
	mediaService := service.NewMediaService(cfg)
	adminService := service.NewAdminService(accountRepo, hasher, log)
	dashboardService := service.NewDashboardService(accountRepo, mentorshipRepo)
	linkedInService := service.NewLinkedInService(cfg.LinkedIn, rdb, accountService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, accountService, cfg, log),
		User:         handler.NewUserHandler(accountService, log),
		Media:        handler.NewMediaHandler(mediaService, accountService, log),
		Mentorship:   handler.NewMentorshipHandler(mentorshipService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		LinkedIn:     handler.NewLinkedInHandler(linkedInService, cfg.FrontendURL, log),
		Admin:        handler.NewAdminHandler(adminService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Health:       handler.NewHealthHandler(pool, rdb, log),
	}

	// ─── Metrics Registry ─────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	notificationWorker := worker.NewNotificationWorker(rdb, notificationRepo, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		notificationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, router.Deps{
		Verifier: authService,
		Redis:    rdb,
		Metrics:  middleware.NewMetrics(reg),
		Log:      log,
	}, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker; it drains the queue before returning.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
