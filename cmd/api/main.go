package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akira/events-api/internal/auth"
	"github.com/akira/events-api/internal/cache"
	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/config"
	"github.com/akira/events-api/internal/db"
	httpx "github.com/akira/events-api/internal/http"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/akira/events-api/internal/observability"
	"github.com/akira/events-api/internal/repo/cached"
	"github.com/akira/events-api/internal/repo/memory"
	"github.com/akira/events-api/internal/repo/sqldb"
	"github.com/akira/events-api/internal/service"
	"github.com/akira/events-api/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel, cfg.OTelServiceName)
	slog.SetDefault(log)

	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	startCtx, cancelStart := config.WithTimeout(15 * time.Second)
	defer cancelStart()

	shutdownTracer, err := observability.InitTracer(startCtx, observability.TracerConfig{
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	clk := clock.NewSystem()

	// storage

	var (
		repo   service.EventsRepository
		checks []handlers.Check
		conn   *sql.DB
	)

	switch cfg.DBDriver {
	case db.DriverMemory:
		mem := memory.NewEventsRepo()
		repo = mem
		checks = append(checks, handlers.Check{Name: "db", Ping: mem.Ping})

	default:
		conn, err = db.Open(cfg.DBDriver, cfg.DSN(), cfg.DBMaxOpenConns)
		if err != nil {
			log.Error("db connect failed", "driver", cfg.DBDriver, "err", err)
			os.Exit(1)
		}

		err = migrations.Apply(startCtx, conn, cfg.DBDriver)
		if err != nil {
			log.Error("migrations failed", "err", err)
			conn.Close()
			os.Exit(1)
		}

		sqlRepo := sqldb.NewEventsRepo(conn, prom)
		repo = sqlRepo
		checks = append(checks, handlers.Check{Name: "db", Ping: sqlRepo.Ping})
	}

	// cache

	var redisStore *cache.Redis

	switch {
	case cfg.CacheTTL <= 0:
		log.Info("event cache disabled")

	case cfg.RedisAddr != "":
		redisStore = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		repo = cached.NewEventsRepo(repo, redisStore, log, prom)
		checks = append(checks, handlers.Check{Name: "cache", Ping: redisStore.Ping})

	case cfg.CacheInProcess:
		log.Warn("using per-process event cache, run a single replica")
		repo = cached.NewEventsRepo(repo, cache.NewMemory(cfg.CacheTTL), log, prom)

	default:
		log.Info("event cache disabled, set REDIS_ADDR or CACHE_IN_PROCESS to enable")
	}

	deps := httpx.RouterDeps{
		Env:                cfg.Env,
		ServiceName:        cfg.OTelServiceName,
		Events:             service.NewEventsService(repo, clk, log),
		Clock:              clk,
		Checks:             checks,
		Prom:               prom,
		Gatherer:           reg,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		MaxBodyBytes:       cfg.MaxBodyBytes,
	}

	// optional write guard
	if cfg.JWTSecret != "" {
		deps.Tokens = auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	} else {
		log.Warn("JWT_SECRET not set, event writes are unauthenticated")
	}

	router := httpx.NewRouter(log, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "db_driver", cfg.DBDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if redisStore != nil {
			if err := redisStore.Close(); err != nil {
				log.Error("redis close failed", "err", err)
			}
		}

		if conn != nil {
			if err := conn.Close(); err != nil {
				log.Error("db close failed", "err", err)
			}
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// compile-time check that the service satisfies the handler contract
var _ handlers.EventsService = (*service.EventsService)(nil)
