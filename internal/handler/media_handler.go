package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
)

// MediaHandler handles avatar uploads.
type MediaHandler struct {
	mediaService   *service.MediaService
	accountService *service.AccountService
	log            zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, accountService *service.AccountService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService:   mediaService,
		accountService: accountService,
		log:            log.With().Str("component", "media_handler").Logger(),
	}
}

// UploadAvatar godoc
// POST /api/v1/users/me/avatar
// Stores the multipart "avatar" image and sets it as the profile picture.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	id := identity(c)
	if id == nil {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	url, err := h.mediaService.SaveAvatar(file, header)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	account, err := h.accountService.UpdateProfile(c.Request.Context(), id.AccountID, model.ProfileUpdate{ProfilePicture: &url})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"url": url, "user": account})
}
