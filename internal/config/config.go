package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var of the same name.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	MaxBodyBytes   int64  `mapstructure:"MAX_BODY_BYTES"`

	// Per-IP request budgets; 0 disables a limiter
	AuthRateLimit   int           `mapstructure:"AUTH_RATE_LIMIT"`
	RenderRateLimit int           `mapstructure:"RENDER_RATE_LIMIT"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	// Database: postgres://... or sqlite://path
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis: empty runs numbering in memory and disables email delivery
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Invoices
	PDFFontPath         string `mapstructure:"PDF_FONT_PATH"`
	InvoiceNumberPrefix string `mapstructure:"INVOICE_NUMBER_PREFIX"`
	DefaultCurrency     string `mapstructure:"DEFAULT_CURRENCY"`
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Sensible defaults for development
	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_POOL_SIZE", 5)
	v.SetDefault("MAX_BODY_BYTES", 5<<20)
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("RENDER_RATE_LIMIT", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("DATABASE_URL", "sqlite://invoicegen.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)
	v.SetDefault("JWT_REFRESH_HOURS", 24)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("PDF_FONT_PATH", "")
	v.SetDefault("INVOICE_NUMBER_PREFIX", "INV")
	v.SetDefault("DEFAULT_CURRENCY", "INR")

	// Optional .env file for local development; missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
