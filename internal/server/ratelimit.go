package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window counter keyed by an arbitrary string, used
// here per client IP on the credential endpoints. State is process-local;
// running several replicas multiplies the effective limit accordingly.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*rateWindow
}

type rateWindow struct {
	count int
	reset time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*rateWindow),
	}
}

func (l *rateLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.hits[key]
	if !ok || now.After(win.reset) {
		l.hits[key] = &rateWindow{count: 1, reset: now.Add(l.window)}
		l.sweepLocked(now)
		return true
	}
	if win.count >= l.limit {
		return false
	}
	win.count++
	return true
}

// sweepLocked drops expired windows so the map does not grow with every
// distinct client ever seen. Called with the mutex held.
func (l *rateLimiter) sweepLocked(now time.Time) {
	if len(l.hits) < 1024 {
		return
	}
	for key, win := range l.hits {
		if now.After(win.reset) {
			delete(l.hits, key)
		}
	}
}

// LoginRateLimit throttles credential attempts per client IP.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loginLimiter != nil && !s.loginLimiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
