package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akira/events-api/internal/domain/event"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/events", func(ctx *gin.Context) {
		var in event.Input
		if !handlers.BindJSON(ctx, &in) {
			return
		}
		ctx.Status(http.StatusCreated)
	})
	return r
}

func TestBindJSON_TypeMismatchUsesJSONFieldNames(t *testing.T) {
	body := `{"title":"Go Meetup","startDate":"tomorrow"}`
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	bindRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	resp := decodeStatus(t, w)

	if resp.Message != "Invalid request body" {
		t.Fatalf("unexpected message: %s", resp.Message)
	}
	if msg := resp.Errors["startDate"]; !strings.Contains(msg, "integer") {
		t.Fatalf("expected startDate type error, got %+v", resp.Errors)
	}
}

func TestBindJSON_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	bindRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := decodeStatus(t, w); resp.Errors["body"] == "" {
		t.Fatalf("expected a body error, got %+v", resp.Errors)
	}
}

func TestBindJSON_FractionalPrice(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"price": 12.5}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	bindRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := decodeStatus(t, w); resp.Errors["price"] == "" {
		t.Fatalf("expected a price error, got %+v", resp.Errors)
	}
}
