// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the lead store connection, email delivery
// credentials, rate limiting, and observability.
//
// All required values are checked once, up front: Load returns an error that
// names every missing setting instead of letting handlers discover gaps one
// request at a time.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MailConfig defines transactional email delivery settings.
type MailConfig struct {
	ResendAPIKey      string // RESEND_API_KEY (required)
	PostmarkToken     string // POSTMARK_SERVER_TOKEN (optional fallback provider)
	AdminEmail        string // ADMIN_EMAIL (required)
	NotificationEmail string // NOTIFICATION_EMAIL (required)
	Autoresponder     bool   // AUTORESPONDER_ENABLED
}

// RateLimitConfig defines the advisory per-client submission limit.
type RateLimitConfig struct {
	Max    int           // RATE_LIMIT_MAX requests per window
	Window time.Duration // RATE_LIMIT_WINDOW

	// Redis-backed counter store. Empty Addr selects the in-process store.
	RedisAddr     string // REDIS_ADDR (e.g. "localhost:6379")
	RedisPassword string // REDIS_PASSWORD
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-leads-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Lead store
	DatabaseURL string // DATABASE_URL: Postgres DSN with credential (required)

	// Site identity, used for CORS and email From headers
	SiteName string // SITE_NAME (required)
	SiteURL  string // SITE_URL: the single allowed browser origin (required)

	Mail      MailConfig
	RateLimit RateLimitConfig
	OTEL      OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Lead store
		DatabaseURL: getenv("DATABASE_URL", ""),

		// Site identity
		SiteName: getenv("SITE_NAME", ""),
		SiteURL:  strings.TrimRight(getenv("SITE_URL", ""), "/"),

		Mail: MailConfig{
			ResendAPIKey:      getenv("RESEND_API_KEY", ""),
			PostmarkToken:     getenv("POSTMARK_SERVER_TOKEN", ""),
			AdminEmail:        getenv("ADMIN_EMAIL", ""),
			NotificationEmail: getenv("NOTIFICATION_EMAIL", ""),
			Autoresponder:     getbool("AUTORESPONDER_ENABLED", true),
		},

		RateLimit: RateLimitConfig{
			Max:           getint("RATE_LIMIT_MAX", 100),
			Window:        getdur("RATE_LIMIT_WINDOW", time.Hour),
			RedisAddr:     getenv("REDIS_ADDR", ""),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-leads-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		return cfg, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, fmt.Errorf("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, fmt.Errorf("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, fmt.Errorf("MAX_HEADER_BYTES must be > 0")
	}
	if _, err := url.Parse(cfg.SiteURL); err != nil {
		return cfg, fmt.Errorf("SITE_URL must be a valid URL: %w", err)
	}
	if cfg.RateLimit.Max < 1 {
		return cfg, fmt.Errorf("RATE_LIMIT_MAX must be >= 1")
	}
	if cfg.RateLimit.Window <= 0 {
		return cfg, fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// MissingRequired returns the environment variable names of required settings
// that are absent. An empty result means the pipeline can run.
func (c Config) MissingRequired() []string {
	var missing []string
	required := []struct {
		name, value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"RESEND_API_KEY", c.Mail.ResendAPIKey},
		{"ADMIN_EMAIL", c.Mail.AdminEmail},
		{"NOTIFICATION_EMAIL", c.Mail.NotificationEmail},
		{"SITE_NAME", c.SiteName},
		{"SITE_URL", c.SiteURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// Ready reports whether every required setting is present.
func (c Config) Ready() bool { return len(c.MissingRequired()) == 0 }

// SiteHost returns the hostname of SiteURL, used to derive the
// "noreply@<host>" sender address. Falls back to "example.com" when the URL
// cannot be parsed.
func (c Config) SiteHost() string {
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Hostname() == "" {
		return "example.com"
	}
	return u.Hostname()
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
