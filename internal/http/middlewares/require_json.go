package middlewares

import (
	"net/http"
	"strings"

	"github.com/akira/events-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				handlers.RespondError(c, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil, nil)
				return
			}
		}
		c.Next()
	}
}
