package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is one dependency pinged by /readyz.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks []Check
}

// create a new instance of the health handler
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	failures := map[string]string{}

	for _, c := range h.checks {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		err := c.Ping(pingCtx)
		cancel()

		if err != nil {
			failures[c.Name] = err.Error()
		}
	}

	if len(failures) > 0 {
		RespondError(ctx, http.StatusServiceUnavailable, "Not ready", failures, nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
