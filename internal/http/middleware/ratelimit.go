// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the advisory submission rate limit: a fixed-window
// counter keyed by client IP, backed by an external counter store. The
// limiter is fail-open on every store error — a broken Redis must slow leads
// down, not stop them — and is intended for edge-level abuse control, not as
// a security boundary.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/ratelimit"
)

// RateLimitKey derives the counter key for a request. Kept as a function so
// tests and future deployments behind different proxies can swap it.
type RateLimitKey func(*gin.Context) string

// KeyByClientIP keys the counter on the client network address as resolved
// by Gin (honors X-Forwarded-For when trusted proxies are configured).
func KeyByClientIP() RateLimitKey {
	return func(c *gin.Context) string {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		return ip
	}
}

// RateLimit returns a Gin middleware enforcing at most max requests per
// window for each key.
//
// Behavior per request:
//   - read the current count; on store error, log and proceed (fail open)
//   - count >= max: abort with 429 and a friendly message
//   - otherwise write count+1 with a fresh window expiry; write errors are
//     also logged and ignored
//
// The read and the write are two separate store calls, so two simultaneous
// requests can both pass at the boundary. That imprecision is accepted.
func RateLimit(store ratelimit.Store, max int, window time.Duration, keyFn RateLimitKey) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = KeyByClientIP()
	}
	return func(c *gin.Context) {
		key := keyFn(c)
		lg := LoggerFrom(c)

		count, err := store.Count(c.Request.Context(), key)
		if err != nil {
			lg.Error().Err(err).Msg("rate limit lookup failed, continuing")
			c.Next()
			return
		}

		if count >= max {
			lg.Warn().Int("count", count).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}

		if err := store.Incr(c.Request.Context(), key, window); err != nil {
			lg.Error().Err(err).Msg("rate limit increment failed, continuing")
		}
		c.Next()
	}
}
