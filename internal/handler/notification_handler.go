package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
)

// NotificationHandler handles in-app notification endpoints.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// ListNotifications godoc
// GET /api/v1/notifications
// Lists the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	items, pagination, err := h.notificationService.List(c.Request.Context(), id.AccountID, page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Paged(c, http.StatusOK, items, pagination)
}

// MarkRead godoc
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id.AccountID, notificationID); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"id": notificationID})
}
