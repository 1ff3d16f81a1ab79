package middlewares

import (
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			handlers.RespondUnauthorized(c, "Missing identity context")
			return
		}
		if role != required {
			handlers.RespondForbidden(c, required+" role required")
			return
		}
		c.Next()
	}
}
