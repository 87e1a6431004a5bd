package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dscatalog/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// sweepEvery bounds how often a limiter drops clients whose window is over.
const sweepEvery = 5 * time.Minute

type windowCounter struct {
	count   int
	resetAt time.Time
}

// limiter counts requests per client in fixed windows. Every middleware
// instance owns its limiter, so two engines never share counts.
type limiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	clients   map[string]*windowCounter
	lastSweep time.Time
	now       func() time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{
		limit:     limit,
		window:    window,
		clients:   make(map[string]*windowCounter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// take counts one request for key. It reports whether the request fits in the
// current window and how long until that window closes.
func (l *limiter) take(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}
	w, ok := l.clients[key]
	if !ok || !now.Before(w.resetAt) {
		w = &windowCounter{resetAt: now.Add(l.window)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.limit, w.resetAt.Sub(now)
}

// sweep must be called with mu held.
func (l *limiter) sweep(now time.Time) {
	purged := 0
	for key, w := range l.clients {
		if !now.Before(w.resetAt) {
			delete(l.clients, key)
			purged++
		}
	}
	l.lastSweep = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.clients)).Msg("rate limiter swept")
	}
}

// RateLimiter allows limit requests per window per client IP. A limit of zero
// or less disables it.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitByIP(limit, window, "Too many requests, try again shortly")
}

// LoginRateLimiter guards POST /auth/login against password guessing.
func LoginRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitByIP(limit, window, "Too many login attempts, try again in a minute")
}

func limitByIP(limit int, window time.Duration, msg string) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		ok, wait := l.take(c.ClientIP())
		if !ok {
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("client_ip", c.ClientIP()).
				Str("path", c.Request.URL.Path).
				Msg("rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New(http.StatusTooManyRequests, "Too many requests", msg, c.Request.URL.Path))
			return
		}
		c.Next()
	}
}
