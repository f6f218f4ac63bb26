package response

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "requestID"

// Inbound ids are echoed into logs, so only short opaque tokens are kept.
var inboundRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestIDMiddleware tags every request with an id. A well-formed
// X-Request-ID from the caller is reused; anything else is replaced by a
// fresh ULID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !inboundRequestID.MatchString(id) {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, or "" when the
// middleware did not run.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
