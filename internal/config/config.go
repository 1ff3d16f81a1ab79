package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	DBDriver       string
	DBURL          string
	SQLitePath     string
	DBMaxOpenConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// per-process cache, only safe with a single replica
	CacheInProcess bool

	JWTSecret    string
	JWTAccessTTL time.Duration

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	MaxBodyBytes       int64

	OTelEndpoint    string
	OTelServiceName string
	OTelSampleRatio float64
}

// Load reads the environment, after merging an optional .env file outside prod.
func Load() (Config, error) {
	env := getEnv("APP_ENV", EnvDev)

	if env != EnvProd {
		// a missing .env is normal; real env vars always win
		_ = godotenv.Load()
	}

	var errs []error

	intVar := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	boolVar := func(key string, fallback bool) bool {
		v, err := getEnvBool(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	floatVar := func(key string, fallback float64) float64 {
		v, err := getEnvFloat(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := Config{
		Env:      env,
		Port:     intVar("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", ""),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBURL:          getEnv("DB_URL", buildDBURL()),
		SQLitePath:     getEnv("SQLITE_PATH", "events.db"),
		DBMaxOpenConns: intVar("DB_MAX_OPEN_CONNS", 5),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       intVar("REDIS_DB", 0),
		CacheTTL:      time.Duration(intVar("CACHE_TTL_SECONDS", 30)) * time.Second,

		CacheInProcess: boolVar("CACHE_IN_PROCESS", false),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTAccessTTL: time.Duration(intVar("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		RateLimitPerMinute: intVar("RATE_LIMIT_PER_MINUTE", 0),
		MaxBodyBytes:       int64(intVar("MAX_BODY_BYTES", 1<<20)),

		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "events-api"),
		OTelSampleRatio: floatVar("OTEL_SAMPLE_RATIO", 1),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unsupported value %q", cfg.DBDriver))
	}

	if cfg.OTelSampleRatio < 0 || cfg.OTelSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO: must be within [0, 1], got %g", cfg.OTelSampleRatio))
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: out of range %d", cfg.Port))
	}

	return cfg, errors.Join(errs...)
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.DBURL
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "events")
	pass := getEnv("DB_PASSWORD", "events")
	name := getEnv("DB_NAME", "events")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}

	return num, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}

	return b, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}

	return f, nil
}

func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
