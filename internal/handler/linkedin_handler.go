package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
)

// LinkedInHandler handles the LinkedIn account-linking flow.
type LinkedInHandler struct {
	linkedInService *service.LinkedInService
	frontendURL     string
	log             zerolog.Logger
}

// NewLinkedInHandler creates a new LinkedInHandler.
func NewLinkedInHandler(linkedInService *service.LinkedInService, frontendURL string, log zerolog.Logger) *LinkedInHandler {
	return &LinkedInHandler{
		linkedInService: linkedInService,
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		log:             log.With().Str("component", "linkedin_handler").Logger(),
	}
}

// Start godoc
// GET /api/v1/auth/linkedin
// Returns the LinkedIn consent URL for the authenticated account.
func (h *LinkedInHandler) Start(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	authURL, err := h.linkedInService.AuthURL(c.Request.Context(), id.AccountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"url": authURL})
}

// Callback godoc
// GET /api/v1/auth/linkedin/callback
// Completes the authorization and redirects back to the profile page with
// ?linkedin=linked or ?linkedin=<error code>.
func (h *LinkedInHandler) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		h.redirect(c, "denied")
		return
	}

	_, err := h.linkedInService.Callback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthState):
			h.redirect(c, "expired")
		case errors.Is(err, service.ErrLinkedInDisabled):
			h.redirect(c, "disabled")
		default:
			h.log.Warn().Err(err).Msg("LinkedIn callback failed")
			h.redirect(c, "failed")
		}
		return
	}

	h.redirect(c, "linked")
}

func (h *LinkedInHandler) redirect(c *gin.Context, outcome string) {
	c.Redirect(http.StatusFound, h.frontendURL+"/profile?linkedin="+url.QueryEscape(outcome))
}
