package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/middleware"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	cfg            *config.Config
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	accountService *service.AccountService,
	cfg *config.Config,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		cfg:            cfg,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student or alumni account, selected by the role field, and opens a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var envelope model.RegistrationEnvelope
	if fields := validator.BindBody(c, &envelope); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var reg model.Registration
	switch envelope.Role {
	case model.RoleStudent:
		var r model.StudentRegistration
		if fields := validator.BindBody(c, &r); fields != nil {
			response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		reg = r
	default:
		var r model.AlumniRegistration
		if fields := validator.BindBody(c, &r); fields != nil {
			response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
		reg = r
	}

	account, err := h.accountService.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.authService.IssueToken(account)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSession(c, token)

	response.JSON(c, http.StatusCreated, gin.H{"user": account.Summary()})
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and opens a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, token, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSession(c, token)

	response.JSON(c, http.StatusOK, gin.H{"user": account.Summary()})
}

// Logout godoc
// POST /api/v1/auth/logout
// Overwrites the session cookie with an expired one. The token itself stays
// valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.IsProduction(), true)
	response.JSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the full record of the currently authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), id.AccountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"user": account})
}

func (h *AuthHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.authService.TokenTTL().Seconds()), "/", "", h.cfg.IsProduction(), true)
}
