package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akira/events-api/internal/auth"
	"github.com/akira/events-api/internal/cache"
	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/db"
	"github.com/akira/events-api/internal/domain/event"
	apphttp "github.com/akira/events-api/internal/http"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/akira/events-api/internal/observability"
	"github.com/akira/events-api/internal/repo/cached"
	"github.com/akira/events-api/internal/repo/sqldb"
	"github.com/akira/events-api/internal/service"
	"github.com/akira/events-api/migrations"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

type stack struct {
	router *gin.Engine
	prom   *observability.Prom
	token  string
}

// setupStack wires the same layers as cmd/api over an in-memory sqlite database.
func setupStack(t *testing.T) stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clk := clock.NewFixed(testNow)

	conn, err := db.Open(db.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrations.Apply(context.Background(), conn, db.DriverSQLite))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	store := cache.NewMemory(time.Minute)
	repo := cached.NewEventsRepo(sqldb.NewEventsRepo(conn, prom), store, logger, prom)

	tokens := auth.NewManager("integration-secret", time.Hour)
	token, err := tokens.GenerateAccessToken("integration", auth.RoleAdmin)
	require.NoError(t, err)

	router := apphttp.NewRouter(logger, apphttp.RouterDeps{
		Env:    "test",
		Events: service.NewEventsService(repo, clk, logger),
		Clock:  clk,
		Checks: []handlers.Check{
			{Name: "db", Ping: conn.PingContext},
			{Name: "cache", Ping: store.Ping},
		},
		Prom:         prom,
		Gatherer:     reg,
		Tokens:       tokens,
		MaxBodyBytes: 1 << 20,
	})

	return stack{router: router, prom: prom, token: token}
}

func (s stack) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

func body(title string, status string) string {
	start := event.StartOfDay(testNow) + 7200
	return fmt.Sprintf(`{"title":%q,"price":1500,"status":%q,"startDate":%d,"endDate":%d}`, title, status, start, start+3600)
}

func TestEventsLifecycle_SQLite(t *testing.T) {
	s := setupStack(t)

	w := s.request(t, http.MethodPost, "/api/v1/events/new", body("Go Meetup", event.StatusStarted))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created event.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Positive(t, created.ID)
	require.Equal(t, testNow.Unix(), created.CreatedAt)

	path := fmt.Sprintf("/api/v1/events/%d", created.ID)

	// first read fills the cache, second one is served from it
	for i := 0; i < 2; i++ {
		w = s.request(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 1.0, testutil.ToFloat64(s.prom.CacheResults.WithLabelValues("event", "hit")))

	w = s.request(t, http.MethodPut, path, body("Go Meetup II", event.StatusPaused))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the write invalidated the cached copy
	w = s.request(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got event.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "Go Meetup II", got.Title)
	require.Equal(t, event.StatusPaused, got.Status)
	require.Equal(t, created.CreatedAt, got.CreatedAt)

	w = s.request(t, http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []event.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, got, list[0])

	w = s.request(t, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestEventsList_SQLiteCapsAtPageSize(t *testing.T) {
	s := setupStack(t)

	for i := 0; i < event.ListPageSize+3; i++ {
		w := s.request(t, http.MethodPost, "/api/v1/events/new", body(fmt.Sprintf("Event %02d", i), event.StatusStarted))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.request(t, http.MethodGet, "/api/v1/events", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []event.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, event.ListPageSize)
	require.Equal(t, "Event 00", list[0].Title)
}

func TestReadyz_SQLite(t *testing.T) {
	s := setupStack(t)

	w := s.request(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
