package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusError   = "error"
	statusSuccess = "success"
)

// StatusResponse is the body of every non-entity response.
type StatusResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

func RespondError(ctx *gin.Context, status int, message string, errors map[string]string, data interface{}) {
	ctx.AbortWithStatusJSON(status, StatusResponse{
		Status:  statusError,
		Message: message,
		Errors:  errors,
		Data:    data,
	})
}

func RespondSuccess(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, StatusResponse{Status: statusSuccess, Message: message})
}

func RespondBadRequest(ctx *gin.Context, message string, errors map[string]string) {
	RespondError(ctx, http.StatusBadRequest, message, errors, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil, []interface{}{})
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil, nil)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, message, nil, nil)
}

// NoRoute answers unknown paths with the same envelope as everything else.
func NoRoute(ctx *gin.Context) {
	RespondNotFound(ctx, "Route not found")
}

// Recover turns a panic into a generic 500.
func Recover(ctx *gin.Context, _ any) {
	RespondInternal(ctx, "Internal server error")
}
