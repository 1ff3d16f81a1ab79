package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/domain/event"
	"github.com/gin-gonic/gin"
)

type EventsService interface {
	GetEvent(ctx context.Context, id int64) (event.Event, error)
	ListEvents(ctx context.Context) ([]event.Event, error)
	CreateEvent(ctx context.Context, in event.Input) (event.Event, error)
	UpdateEvent(ctx context.Context, id int64, in event.Input) (event.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type EventsHandler struct {
	svc   EventsService
	clock clock.Clock
}

func NewEventsHandler(svc EventsService, clk clock.Clock) *EventsHandler {
	return &EventsHandler{svc: svc, clock: clk}
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, events)
}

func (h *EventsHandler) GetEventById(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	e, err := h.svc.GetEvent(ctx.Request.Context(), id)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, e)
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	in, ok := h.bindInput(ctx)

	if !ok {
		return
	}

	e, err := h.svc.CreateEvent(ctx.Request.Context(), in)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, e)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	in, ok := h.bindInput(ctx)

	if !ok {
		return
	}

	e, err := h.svc.UpdateEvent(ctx.Request.Context(), id, in)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id, ok := parseID(ctx)

	if !ok {
		return
	}

	err := h.svc.DeleteEvent(ctx.Request.Context(), id)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Event deleted successfully")
}

// bindInput decodes and validates the body; nothing reaches the service unless both pass.
func (h *EventsHandler) bindInput(ctx *gin.Context) (event.Input, bool) {
	var in event.Input

	if !BindJSON(ctx, &in) {
		return event.Input{}, false
	}

	err := in.Validate(h.clock.Now())

	var validationErr *event.ValidationError
	if errors.As(err, &validationErr) {
		RespondBadRequest(ctx, "Validation failed", validationErr.Fields)
		return event.Input{}, false
	}

	return in, true
}

// RequireValidID rejects a bad :id before anything that inspects the body runs.
func RequireValidID(ctx *gin.Context) {
	if _, ok := parseID(ctx); !ok {
		return
	}

	ctx.Next()
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid ID params", nil)
		return 0, false
	}

	return id, true
}

func respondServiceError(ctx *gin.Context, err error) {
	var constraintErr *event.ConstraintError

	switch {
	case errors.Is(err, event.ErrNotFound):
		RespondNotFound(ctx, "Event not found")
	case errors.As(err, &constraintErr):
		RespondBadRequest(ctx, constraintErr.Message(), map[string]string{"constraint": constraintErr.Detail()})
	case errors.Is(err, event.ErrConstraintViolation):
		RespondBadRequest(ctx, err.Error(), nil)
	default:
		RespondInternal(ctx, err.Error())
	}
}
