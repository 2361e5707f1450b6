// Package httpapi wires the HTTP transport (Gin) to the submission pipeline,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS with a single allowed origin, security headers, and the advisory
// rate limit.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter, gzip
//  6. Metrics
//  7. Origin guard, then CORS (preflight handled by gin-contrib/cors)
//  8. Security headers
//
// The rate limiter and configuration guard are attached to the submit route
// only: health, metrics, and docs stay reachable while Redis or the
// environment is broken.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/config"
	"github.com/tbourn/go-leads-backend/internal/http/handlers"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/mailer"
	"github.com/tbourn/go-leads-backend/internal/ratelimit"
	"github.com/tbourn/go-leads-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and wires services ← repo/db/mailer.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, counters ratelimit.Store, mail mailer.Mailer, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB is generous for a form) and gzip
	r.Use(limitBody(64 << 10))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Cross-origin posture: exactly one allowed origin (the site embedding
	// the form). The guard answers mismatches with the JSON envelope before
	// gin-contrib/cors would reject them with an empty body; preflight
	// requests skip the guard and are answered by the CORS middleware.
	r.Use(originGuard(cfg.SiteURL))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{cfg.SiteURL},
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        24 * time.Hour,
	}))

	// 8) Security headers
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/mailer
	leadSvc := &services.LeadService{DB: db}
	notifier := &services.Notifier{
		Mail:          mail,
		SiteName:      cfg.SiteName,
		SiteHost:      cfg.SiteHost(),
		OperatorEmail: cfg.Mail.NotificationEmail,
		Autoresponder: cfg.Mail.Autoresponder,
	}
	h := handlers.New(cfg, leadSvc, notifier)

	// Public API. The config guard runs before the rate limiter so a broken
	// environment answers 500 without consuming counter writes.
	api := r.Group("/api")
	{
		api.POST("/submit",
			requireConfig(cfg),
			middleware.RateLimit(counters, cfg.RateLimit.Max, cfg.RateLimit.Window, middleware.KeyByClientIP()),
			h.Submit,
		)
	}
}

// originGuard rejects requests whose Origin header is present but does not
// match the configured site. Requests without an Origin header (curl,
// server-to-server) pass through; preflights are left to the CORS middleware.
func originGuard(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if origin := c.GetHeader("Origin"); origin != "" && origin != allowed {
			middleware.LoggerFrom(c).Warn().
				Str("origin", origin).
				Str("allowed", allowed).
				Msg("invalid origin")
			handlers.Fail(c, http.StatusForbidden, handlers.MsgInvalidOrigin)
			return
		}
		c.Next()
	}
}

// requireConfig answers 500 for the submit route when required settings are
// absent, before any counter or store traffic happens.
func requireConfig(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if missing := cfg.MissingRequired(); len(missing) > 0 {
			middleware.LoggerFrom(c).Error().
				Strs("missing", missing).
				Msg("missing required configuration")
			handlers.Fail(c, http.StatusInternalServerError, handlers.MsgServerConfig)
			return
		}
		c.Next()
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body reads
// to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
