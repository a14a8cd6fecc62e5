package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the local development frontends admitted when
// ALLOWED_ORIGINS is unset or blank.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000", // React dev server
	"http://localhost:5173", // Vite dev server
}

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment     string        `env:"ENV" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"3000"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"65536"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Proxies (IPs or CIDRs) whose X-Forwarded-For / X-Real-IP headers are
	// believed. Empty trusts none and uses the socket address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Contact route rate limit, per client IP
	ContactRateRPS   float64 `env:"CONTACT_RATE_RPS" envDefault:"1"`
	ContactRateBurst int     `env:"CONTACT_RATE_BURST" envDefault:"5"`

	// Storage Configuration
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL   string `env:"DATABASE_URL"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"contact"`

	// Retention
	SubmissionRetention time.Duration `env:"SUBMISSION_RETENTION" envDefault:"0s"`
	CleanupInterval     time.Duration `env:"CLEANUP_INTERVAL" envDefault:"12h"`

	// Notifications
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	// reCAPTCHA
	RecaptchaSecretKey string  `env:"RECAPTCHA_SECRET_KEY"`
	RecaptchaMinScore  float64 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.TrustedProxies = normalizeProxies(cfg.TrustedProxies)

	// Set default log file if not set
	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return cfg, nil
}

// loadEnvFiles loads the first .env file found. godotenv never overrides
// variables already present in the process environment.
func loadEnvFiles() {
	envLocations := []string{".env"}

	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{".env." + envName}, envLocations...)
	}

	for _, loc := range envLocations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}
}

// normalizeOrigins trims entries, drops blanks and falls back to the
// development defaults when nothing usable is left.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			out = append(out, origin)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultAllowedOrigins...)
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("ALLOWED_ORIGINS entry %q is not an http(s) origin", origin))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %s", c.LogLevel))
	}

	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}

	if c.ContactRateRPS <= 0 || c.ContactRateBurst <= 0 {
		errs = append(errs, errors.New("CONTACT_RATE_RPS and CONTACT_RATE_BURST must be positive"))
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER: %s", c.StoreDriver))
	}

	if c.SubmissionRetention < 0 {
		errs = append(errs, errors.New("SUBMISSION_RETENTION must not be negative"))
	}
	if c.SubmissionRetention > 0 && c.CleanupInterval <= 0 {
		errs = append(errs, errors.New("CLEANUP_INTERVAL must be positive when retention is enabled"))
	}

	if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		errs = append(errs, fmt.Errorf("RECAPTCHA_MIN_SCORE must be within [0,1], got %.2f", c.RecaptchaMinScore))
	}

	for _, proxy := range c.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
		}
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// normalizeProxies trims entries and drops blanks
func normalizeProxies(proxies []string) []string {
	var out []string
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}
