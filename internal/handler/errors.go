package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/middleware"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
)

// errorStatus maps service sentinels to an HTTP status and error code.
// Order matters: the specific conflicts are checked before ErrConflict.
var errorStatus = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrUnauthorized, http.StatusUnauthorized, response.ErrUnauthorized},
	{service.ErrForbidden, http.StatusForbidden, response.ErrForbidden},
	{service.ErrNotParticipant, http.StatusForbidden, response.ErrNotParticipant},
	{service.ErrEmailTaken, http.StatusConflict, response.ErrEmailTaken},
	{service.ErrSapIDTaken, http.StatusConflict, response.ErrSapIDTaken},
	{service.ErrConflict, http.StatusConflict, response.ErrConflict},
	{service.ErrInvalidTransition, http.StatusConflict, response.ErrInvalidState},
	{service.ErrAccountNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrRequestNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrNotificationNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrInvalidMentor, http.StatusBadRequest, response.ErrInvalidMentor},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusBadRequest, response.ErrFileTooLarge},
	{service.ErrOAuthState, http.StatusBadRequest, response.ErrOAuthState},
	{service.ErrLinkedInDisabled, http.StatusServiceUnavailable, response.ErrFeatureOff},
	{service.ErrLinkedInUpstream, http.StatusBadGateway, response.ErrUpstreamFailed},
}

// respondError writes the envelope for err. Unknown errors are logged and
// reported as INTERNAL_ERROR without details.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			response.Fail(c, e.status, e.code)
			return
		}
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", response.RequestID(c)).
		Msg("Unhandled error")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// identity returns the caller or writes a 401 and returns nil.
func identity(c *gin.Context) *service.Identity {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized)
	}
	return id
}
