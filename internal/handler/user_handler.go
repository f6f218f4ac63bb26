package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

// UserHandler handles profile, credential and directory endpoints.
type UserHandler struct {
	accountService *service.AccountService
	log            zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accountService *service.AccountService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		accountService: accountService,
		log:            log.With().Str("component", "user_handler").Logger(),
	}
}

// GetUser godoc
// GET /api/v1/users/:id
// Returns an account's profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"user": account})
}

// UpdateMe godoc
// PATCH /api/v1/users/me
// Applies a sparse profile update and returns the recomputed record.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	var req model.ProfileUpdate
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.UpdateProfile(c.Request.Context(), id.AccountID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"user": account})
}

// ChangePassword godoc
// PUT /api/v1/users/me/password
// Replaces the password after checking the current one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.accountService.ChangePassword(c.Request.Context(), id.AccountID, req); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Password updated"})
}

// ChangeEmail godoc
// PUT /api/v1/users/me/email
// Moves the account to a new email after checking the password.
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	var req model.ChangeEmailRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.ChangeEmail(c.Request.Context(), id.AccountID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"user": account})
}

// ListMentors godoc
// GET /api/v1/mentors
// Searches mentor-eligible accounts by name, skills, company or headline.
func (h *UserHandler) ListMentors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := model.MentorFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Topic: strings.TrimSpace(c.Query("topic")),
		Page:  page,
		Limit: limit,
	}
	if by := c.Query("batchYear"); by != "" {
		year, err := strconv.Atoi(by)
		if err != nil {
			response.FailFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"batchYear": "batchYear must be a number"})
			return
		}
		filter.BatchYear = year
	}

	mentors, pagination, err := h.accountService.SearchMentors(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Paged(c, http.StatusOK, mentors, pagination)
}
