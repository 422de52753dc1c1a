package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"educenter/internal/domain"
	"educenter/internal/logger"
	"educenter/internal/pkg/jwt"
	"educenter/internal/pkg/response"
)

const (
	ctxUserID   = "user_id"
	ctxCenterID = "center_id"
	ctxRole     = "role"
)

// JWTAuth validates the bearer token and stores user_id, center_id and role
// on the gin context. The websocket route may pass the token as ?token=.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxCenterID, claims.CenterID)
		c.Set(ctxRole, claims.Role)
		c.Request = c.Request.WithContext(logger.ContextWithUser(c.Request.Context(), claims.UserID, claims.CenterID))

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// ActorFrom reads the authenticated caller set by JWTAuth.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:   c.GetInt64(ctxUserID),
		CenterID: c.GetInt64(ctxCenterID),
		Role:     domain.UserRole(c.GetString(ctxRole)),
	}
}
