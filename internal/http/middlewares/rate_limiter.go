package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/akira/events-api/internal/clock"
	"github.com/akira/events-api/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clock   clock.Clock
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clock:   clk,
		clients: make(map[string]*clientBucket),
	}
}

// RateLimiterMiddleware returns a gin.HandlerFunc that enforces the limit for a derived key.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		now := rl.clock.Now()

		rl.mu.Lock()

		b, ok := rl.clients[key]

		if !ok || now.After(b.windowEnd) {
			rl.evictExpired(now)
			rl.clients[key] = &clientBucket{
				count:     1,
				windowEnd: now.Add(rl.window),
			}

			rl.mu.Unlock()
			c.Next()
			return
		}

		if b.count >= rl.limit {
			retryAfter := int(b.windowEnd.Sub(now).Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			rl.mu.Unlock()

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			handlers.RespondError(c, http.StatusTooManyRequests, "Too many requests. Please try again shortly.", nil, nil)

			return
		}

		b.count++
		rl.mu.Unlock()
		c.Next()
	}
}

// evictExpired drops finished windows; callers hold mu.
func (rl *RateLimiter) evictExpired(now time.Time) {
	for k, b := range rl.clients {
		if now.After(b.windowEnd) {
			delete(rl.clients, k)
		}
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// for guarded endpoints: rate limit by token subject if available
func KeyBySubjectOrIP(c *gin.Context) string {
	sub, ok := SubjectFromContext(c)

	if ok && sub != "" {
		return "sub:" + sub
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
