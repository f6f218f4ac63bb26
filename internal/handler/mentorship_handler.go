package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

// MentorshipHandler handles mentorship request endpoints.
type MentorshipHandler struct {
	mentorshipService *service.MentorshipService
	log               zerolog.Logger
}

// NewMentorshipHandler creates a new MentorshipHandler.
func NewMentorshipHandler(mentorshipService *service.MentorshipService, log zerolog.Logger) *MentorshipHandler {
	return &MentorshipHandler{
		mentorshipService: mentorshipService,
		log:               log.With().Str("component", "mentorship_handler").Logger(),
	}
}

// CreateRequest godoc
// POST /api/v1/mentorship/requests
// Creates a Pending mentorship request from the authenticated student.
func (h *MentorshipHandler) CreateRequest(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	var req model.CreateMentorshipRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.mentorshipService.CreateRequest(c.Request.Context(), id.AccountID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{"id": created.ID, "request": created})
}

// ListRequests godoc
// GET /api/v1/mentorship/requests
// Lists the caller's own requests; ?as=mentor|student selects the side,
// defaulting to student for students and mentor for everyone else.
func (h *MentorshipHandler) ListRequests(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	filter := model.MentorshipListFilter{
		AsMentor: id.Role != model.RoleStudent,
		Status:   model.RequestStatus(c.Query("status")),
		Page:     page,
		PerPage:  perPage,
	}
	switch c.Query("as") {
	case "":
	case "mentor":
		filter.AsMentor = true
	case "student":
		filter.AsMentor = false
	default:
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"as": "as must be mentor or student"})
		return
	}

	requests, pagination, err := h.mentorshipService.List(c.Request.Context(), *id, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Paged(c, http.StatusOK, requests, pagination)
}

// GetRequest godoc
// GET /api/v1/mentorship/requests/:id
// Returns a request to one of its participants.
func (h *MentorshipHandler) GetRequest(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	req, err := h.mentorshipService.Get(c.Request.Context(), *id, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"request": req})
}

// AcceptRequest godoc
// POST /api/v1/mentorship/requests/:id/accept
func (h *MentorshipHandler) AcceptRequest(c *gin.Context) {
	h.transition(c, h.mentorshipService.Accept)
}

// DeclineRequest godoc
// POST /api/v1/mentorship/requests/:id/decline
func (h *MentorshipHandler) DeclineRequest(c *gin.Context) {
	h.transition(c, h.mentorshipService.Decline)
}

// CancelRequest godoc
// POST /api/v1/mentorship/requests/:id/cancel
func (h *MentorshipHandler) CancelRequest(c *gin.Context) {
	h.transition(c, h.mentorshipService.Cancel)
}

type transitionFunc func(ctx context.Context, caller service.Identity, id string) (*model.MentorshipRequest, error)

func (h *MentorshipHandler) transition(c *gin.Context, fn transitionFunc) {
	id := identity(c)
	if id == nil {
		return
	}

	req, err := fn(c.Request.Context(), *id, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"request": req})
}
