package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for the authenticated identity.
	ContextKeyClaims = "claims"

	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie = "token"
)

// TokenVerifier turns a session token into the caller identity.
type TokenVerifier interface {
	ValidateToken(token string) (*service.Identity, error)
}

// RequireAuth validates the session token from the token cookie, falling
// back to an Authorization: Bearer header. Every failure is a plain 401.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c)
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		identity, err := verifier.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		c.Set(ContextKeyClaims, identity)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context.
func GetIdentity(c *gin.Context) *service.Identity {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	identity, ok := val.(*service.Identity)
	if !ok {
		return nil
	}
	return identity
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
