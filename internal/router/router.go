package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/handler"
	"github.com/alumnet/alumni-backend/internal/middleware"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Media        *handler.MediaHandler
	Mentorship   *handler.MentorshipHandler
	Notification *handler.NotificationHandler
	LinkedIn     *handler.LinkedInHandler
	Admin        *handler.AdminHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
}

// Deps are the cross-cutting collaborators the router wires into middleware.
type Deps struct {
	Verifier middleware.TokenVerifier
	Redis    *redis.Client
	Metrics  *middleware.Metrics
	Log      zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(cfg *config.Config, deps Deps, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	// Credentials (the session cookie) require an explicit origin list.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}

	// Static avatars and binary exports are already compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		SkipPaths: []string{"/uploads", "/metrics", "/api/v1/admin/accounts/export"},
	}))

	// Serve uploaded avatars statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(365 * 24 * time.Hour))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	if handlers.Health != nil {
		router.GET("/health", handlers.Health.Health)
	} else {
		router.GET("/health", func(c *gin.Context) {
			response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
		})
	}
	if deps.Metrics != nil {
		router.GET("/metrics", deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Verifier)
	authLimiter := middleware.NewRateLimiter(deps.Redis, "auth", cfg.AuthRateLimit, time.Minute, deps.Log)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)

		auth.GET("/me", requireAuth, handlers.Auth.Me)
		auth.GET("/linkedin", requireAuth, handlers.LinkedIn.Start)
		auth.GET("/linkedin/callback", handlers.LinkedIn.Callback)
	}

	// ─── 2. Member Group (any authenticated role) ──────────────────────
	api := router.Group("/api/v1")
	api.Use(requireAuth)
	{
		api.PATCH("/users/me", handlers.User.UpdateMe)
		api.POST("/users/me/avatar", handlers.Media.UploadAvatar)
		api.PUT("/users/me/password", handlers.User.ChangePassword)
		api.PUT("/users/me/email", handlers.User.ChangeEmail)
		api.GET("/users/:id", handlers.User.GetUser)

		api.GET("/mentors", handlers.User.ListMentors)

		api.POST("/mentorship/requests",
			middleware.RequireRole(model.RoleStudent),
			handlers.Mentorship.CreateRequest,
		)
		api.GET("/mentorship/requests", handlers.Mentorship.ListRequests)
		api.GET("/mentorship/requests/:id", handlers.Mentorship.GetRequest)
		api.POST("/mentorship/requests/:id/accept", handlers.Mentorship.AcceptRequest)
		api.POST("/mentorship/requests/:id/decline", handlers.Mentorship.DeclineRequest)
		api.POST("/mentorship/requests/:id/cancel", handlers.Mentorship.CancelRequest)

		api.GET("/notifications", handlers.Notification.ListNotifications)
		api.POST("/notifications/:id/read", handlers.Notification.MarkRead)
	}

	// ─── 3. Admin Group (admin, super_admin) ───────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireAuth, middleware.RequireStaff())
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/accounts", handlers.Admin.ListAccounts)
		adminAPI.GET("/accounts/export", handlers.Admin.ExportAccounts)
		adminAPI.PATCH("/accounts/:id/role",
			middleware.RequireRole(model.RoleSuperAdmin),
			handlers.Admin.UpdateRole,
		)
	}

	return router
}
