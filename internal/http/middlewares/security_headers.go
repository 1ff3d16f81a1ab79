package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// JSON endpoints never load sub-resources
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// the /swagger page pulls swagger-ui from unpkg and fetches /docs/openapi.yaml
	swaggerCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data: https:; font-src 'self' https://unpkg.com data:; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com"

	swaggerPath = "/swagger"
	hstsValue   = "max-age=31536000; includeSubDomains"
)

// SecurityHeaders sets the response hardening headers. hsts should only be
// enabled when the service is reached over TLS.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")

		if strings.HasPrefix(c.Request.URL.Path, swaggerPath) {
			h.Set("Content-Security-Policy", swaggerCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
		}

		if hsts {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		c.Next()
	}
}
