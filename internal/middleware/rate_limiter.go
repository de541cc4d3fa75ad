package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"invoicegen/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// windowCount is one client's fixed window.
type windowCount struct {
	count int
	ends  time.Time
}

// RateLimiter is a per-IP fixed-window limiter. Each instance owns its
// counters, so limiters mounted on different routes never share a budget.
type RateLimiter struct {
	name    string
	limit   int
	window  time.Duration
	message string
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*windowCount
}

// NewRateLimiter allows limit requests per window per client IP.
// A limit <= 0 disables the limiter.
func NewRateLimiter(name string, limit int, window time.Duration, message string) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		message: message,
		now:     time.Now,
		clients: make(map[string]*windowCount),
	}
}

// allow counts one request for key and reports how long until its window
// resets when the request is over the limit.
func (l *RateLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || !now.Before(w.ends) {
		w = &windowCount{ends: now.Add(l.window)}
		l.clients[key] = w
	}
	w.count++
	if w.count > l.limit {
		return false, w.ends.Sub(now)
	}
	return true, 0
}

// Handler returns the gin middleware. Rejected requests get 429 with
// Retry-After in whole seconds.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, wait := l.allow(c.ClientIP())
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// purge drops windows that have already ended and returns how many.
func (l *RateLimiter) purge() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for ip, w := range l.clients {
		if !now.Before(w.ends) {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// Run purges expired windows every few minutes until ctx is cancelled.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.purge(); n > 0 {
				log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter purged")
			}
		}
	}
}
