package http

import (
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/pkg/metrics"
)

// paramLogKeys renames route params so log lines say which entity failed.
var paramLogKeys = map[string]string{
	"id":         "resource_id",
	"analysisId": "analysis_id",
	"routineId":  "routine_id",
	"category":   "category",
}

// errorHandlingMiddleware renders the last handler error as the JSON error
// envelope. 5xx responses log at error level, everything else at warn.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		metrics.HTTPErrors.WithLabelValues(httpErr.Code).Inc()

		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed", errorLogAttrs(c, httpErr)...)

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": httpErr.Message,
			},
		})
	}
}

func errorLogAttrs(c *gin.Context, httpErr *HTTPError) []any {
	attrs := []any{
		"code", httpErr.Code,
		"status", httpErr.Status,
		"method", c.Request.Method,
		"route", c.FullPath(),
	}
	for _, p := range c.Params {
		key, ok := paramLogKeys[p.Key]
		if !ok {
			key = p.Key
		}
		if key == "resource_id" {
			key = resourceKey(c.FullPath())
		}
		attrs = append(attrs, key, p.Value)
	}
	if httpErr.Err != nil {
		attrs = append(attrs, "error", httpErr.Err)
	}
	return attrs
}

// resourceKey names the :id param after the collection it indexes.
func resourceKey(route string) string {
	switch {
	case hasSegment(route, "profiles"):
		return "profile_id"
	case hasSegment(route, "jobs"):
		return "job_id"
	case hasSegment(route, "products"):
		return "product_id"
	}
	return "id"
}

func hasSegment(route, segment string) bool {
	return slices.Contains(strings.Split(route, "/"), segment)
}

// rateLimitMiddleware applies a per-client token bucket and tells rejected
// callers when the next token is due.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPRateLimiter(cfg, time.Now)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		wait, ok := limiter.reserve(ip)
		if ok {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		logger.Warn("rate limit exceeded", "ip", ip, "route", c.FullPath(), "retry_after_ms", wait.Milliseconds())
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

type ipRateLimiter struct {
	mu            sync.Mutex
	clients       map[string]*bucket
	ratePerMinute float64
	burst         float64
	idleTTL       time.Duration
	now           func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func newIPRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *ipRateLimiter {
	burst := float64(cfg.Burst)
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		clients:       make(map[string]*bucket),
		ratePerMinute: float64(cfg.RequestsPerMinute),
		burst:         burst,
		idleTTL:       5 * time.Minute,
		now:           now,
	}
}

// reserve takes one token for ip. When the bucket is empty it reports how
// long until a token refills.
func (l *ipRateLimiter) reserve(ip string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.clients[ip]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.clients[ip] = b
	} else {
		if elapsed := now.Sub(b.lastSeen); elapsed > 0 {
			b.tokens = math.Min(l.burst, b.tokens+float64(elapsed)*l.ratePerMinute/float64(time.Minute))
		}
		b.lastSeen = now
	}
	l.evictIdleLocked(now)
	if b.tokens < 1 {
		missing := 1 - b.tokens
		return time.Duration(missing * float64(time.Minute) / l.ratePerMinute), false
	}
	b.tokens--
	return 0, true
}

func (l *ipRateLimiter) evictIdleLocked(now time.Time) {
	for ip, b := range l.clients {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
		}
	}
}
