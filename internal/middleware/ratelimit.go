package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/logger"
)

// Rate limiter defaults, used when RateLimiter gets a zero window.
const (
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute
)

// visitor is one client's fixed window.
type visitor struct {
	windowStart time.Time
	count       int
}

// ipLimiter counts requests per client IP in fixed windows.
type ipLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now       func() time.Time
	visitors  map[string]*visitor
	lastSweep time.Time
}

// allow records one request from ip and reports whether it fits the window.
// Expired visitors are swept whenever a window's worth of time has passed.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok || now.Sub(v.windowStart) >= l.window {
		v = &visitor{windowStart: now}
		l.visitors[ip] = v
	}
	v.count++

	if now.Sub(l.lastSweep) >= l.window {
		for k, other := range l.visitors {
			if now.Sub(other.windowStart) >= l.window {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	return v.count <= l.limit
}

// RateLimiter allows up to limit requests per window from each client IP and
// answers 429 with an ErrorResponse beyond that. limit <= 0 disables it.
// State is local to the returned handler.
//
// Usage:
//
//	router.Use(middleware.RateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow))
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return newRateLimiter(&ipLimiter{limit: limit, window: window, now: time.Now, visitors: map[string]*visitor{}})
}

func newRateLimiter(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.allow(ip) {
			rid, _ := c.Get(RequestIDKey)
			logger.L().Warn().
				Str("request_id", toString(rid)).
				Str("client_ip", ip).
				Int("limit", l.limit).
				Dur("window", l.window).
				Msg("rate limit exceeded")
			c.Header("Retry-After", retryAfter(l.window))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
