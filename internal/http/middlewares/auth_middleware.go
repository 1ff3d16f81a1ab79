package middlewares

import (
	"strings"

	"github.com/akira/events-api/internal/actorctx"
	"github.com/akira/events-api/internal/auth"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			handlers.RespondUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			handlers.RespondUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			handlers.RespondUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set(CtxSubject, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Request = c.Request.WithContext(actorctx.WithActor(c.Request.Context(), claims.Subject))

		c.Next()
	}
}

func SubjectFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxSubject)
	if !ok {
		return "", false
	}
	sub, ok := v.(string)
	return sub, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
