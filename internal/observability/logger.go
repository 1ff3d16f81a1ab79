package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger: JSON to stdout, debug in dev, every
// record tagged with the service name and, when present, request and trace ids.
func NewLogger(env, level, service string) *slog.Logger {
	return newLogger(os.Stdout, env, level, service)
}

func newLogger(w io.Writer, env, level, service string) *slog.Logger {
	lvl := slog.LevelInfo

	if env == "dev" {
		lvl = slog.LevelDebug
	}

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})

	return slog.New(NewContextHandler(handler)).With("service", service)
}
