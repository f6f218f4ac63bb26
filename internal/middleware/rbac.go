package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
)

// RequireRole lets the request through only when the authenticated role is
// one of roles. It must run after RequireAuth; without an identity the
// request is rejected as unauthenticated.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			response.Abort(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, response.ErrForbidden)
	}
}

// RequireStaff is RequireRole for the admin surface.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin, model.RoleSuperAdmin)
}
