package http

import (
	"log/slog"
	"time"

	"github.com/akira/events-api/internal/auth"
	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/akira/events-api/internal/http/middlewares"
	"github.com/akira/events-api/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps is everything NewRouter wires together. Zero values switch the
// matching feature off: no Tokens means writes are open, no Prom means no metrics.
type RouterDeps struct {
	Env         string
	ServiceName string

	Events handlers.EventsService
	Clock  clock.Clock
	Checks []handlers.Check

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Tokens middlewares.TokenVerifier

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	MaxBodyBytes       int64
}

func NewRouter(log *slog.Logger, deps RouterDeps) *gin.Engine {
	if deps.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}

	r := gin.New()

	// middleware

	r.Use(gin.CustomRecovery(handlers.Recover))

	if deps.ServiceName != "" {
		r.Use(otelgin.Middleware(deps.ServiceName))
	}

	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders(deps.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(deps.CORSAllowedOrigins))

	// reads and operational routes are limited per client IP, writes per token subject

	open := r.Group("")
	if deps.RateLimitPerMinute > 0 {
		rl := middlewares.NewRateLimiter(deps.RateLimitPerMinute, time.Minute, deps.Clock)
		open.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	// health, metrics and docs

	h := handlers.NewHealthHandler(deps.Checks...)
	open.GET("/healthz", h.Healthz)
	open.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		open.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	open.GET("/swagger", handlers.SwaggerUI)
	open.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// events

	eventsHandler := handlers.NewEventsHandler(deps.Events, deps.Clock)

	reads := open.Group("/api/v1/events")
	reads.GET("", eventsHandler.ListEvents)
	reads.GET("/:id", eventsHandler.GetEventById)

	writes := r.Group("/api/v1/events")
	if deps.Tokens != nil {
		am := middlewares.NewAuthMiddleware(deps.Tokens)
		writes.Use(am.RequireAuth(), am.RequireRole(auth.RoleAdmin))
	}
	if deps.RateLimitPerMinute > 0 {
		wl := middlewares.NewRateLimiter(deps.RateLimitPerMinute, time.Minute, deps.Clock)
		writes.Use(wl.RateLimiterMiddleware(middlewares.KeyBySubjectOrIP))
	}

	writes.POST("/new", middlewares.RequireJSON(), middlewares.MaxBodyBytes(deps.MaxBodyBytes), eventsHandler.CreateEvent)
	// the id is checked before the content type so a bad id is always a 400
	writes.PUT("/:id", handlers.RequireValidID, middlewares.RequireJSON(), middlewares.MaxBodyBytes(deps.MaxBodyBytes), eventsHandler.UpdateEvent)
	writes.DELETE("/:id", handlers.RequireValidID, eventsHandler.DeleteEvent)

	r.NoRoute(handlers.NoRoute)

	return r
}
