package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/config"
)

type rateWindow struct {
	start time.Time
	count int
}

// limiter tracks fixed per-minute windows per key. Expired windows are
// swept whenever a new one is opened, so the map stays bounded by the
// set of keys seen in the last minute.
type limiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	limit   int
}

func newLimiter(limit int) *limiter {
	return &limiter{windows: make(map[string]*rateWindow), limit: limit}
}

func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.sweep(now)
		w = &rateWindow{start: now}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit
}

// sweep drops every expired window. Called with mu held.
func (l *limiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= time.Minute {
			delete(l.windows, key)
		}
	}
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// RateLimit returns middleware that enforces a fixed-window per-minute limit
// keyed by owner id, falling back to the client IP when no owner is given.
func RateLimit() gin.HandlerFunc {
	l := newLimiter(config.RateLimitPerMinute)

	return func(c *gin.Context) {
		key := c.Query("owner_id")
		if key == "" {
			key = c.ClientIP()
		}

		if !l.allow(key, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
