package observability

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pgconn.PgError{Code: "23514"}, "check_violation"},
		{fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), "unique_violation"},
		{&pgconn.PgError{Code: "P0001"}, "raise_exception"},
		{&pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{sqlite3.Error{Code: sqlite3.ErrConstraint}, "constraint"},
		{sqlite3.Error{Code: sqlite3.ErrBusy}, "busy"},
		{errors.New("i/o timeout"), "timeout"},
		{errors.New("connection reset by peer"), "connection"},
		{errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDBErr(tt.err), "err=%v", tt.err)
	}
}

func TestObserveDB(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	err := p.ObserveDB("events.get", func() error { return &pgconn.PgError{Code: "23514"} })
	require.Error(t, err)
	require.NoError(t, p.ObserveDB("events.get", func() error { return nil }))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("events.get", "check_violation")))

	var nilProm *Prom
	called := false
	require.NoError(t, nilProm.ObserveDB("events.get", func() error { called = true; return nil }))
	assert.True(t, called)
}

func TestLoggerAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "", "events-api")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "hello")
	span.End()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["span_id"])
	assert.Equal(t, "events-api", rec["service"])
	assert.NotContains(t, rec, "request_id")

	buf.Reset()
	log.Debug("hidden")
	assert.Empty(t, buf.String(), "debug is off outside dev")
}

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "", "events-api").With("component", "service")

	ctx := WithRequestID(context.Background(), "req-42")
	log.DebugContext(ctx, "fetching event", "id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-42", rec["request_id"])
	assert.Equal(t, "service", rec["component"])
	assert.NotContains(t, rec, "trace_id")
}

func TestObserveDB_NoRowsIsNotAnError(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	err := p.ObserveDB("events.get", func() error { return fmt.Errorf("scan: %w", sql.ErrNoRows) })
	require.ErrorIs(t, err, sql.ErrNoRows)

	assert.Equal(t, 0, testutil.CollectAndCount(p.DbErrorsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(p.DbQueryDuration))
	assert.True(t, p.DbQueryDuration.DeleteLabelValues("events.get", "not_found"))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{ServiceName: "events-api"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
