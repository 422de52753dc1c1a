package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"educenter/internal/domain"
	"educenter/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if role.(string) == string(r) {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// ManageOnly lets admins and office staff through.
func ManageOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleStaff)
}
