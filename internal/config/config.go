// Package config loads and validates the immutable runtime configuration
// snapshot. Settings come from environment variables (optionally seeded
// from a .env file); validation runs once at startup and aggregates every
// violated rule so operators see all problems in a single boot attempt.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/pdfkit/pkg/logger"
)

// Config is the process-wide configuration snapshot. It is read-only after
// Load returns and is passed explicitly to components that need it.
type Config struct {
	// Server
	Host  string `env:"HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"PORT" envDefault:"8000"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// File upload policy
	MaxFileSize      int64    `env:"MAX_FILE_SIZE" envDefault:"104857600"` // 100MB
	AllowedFileTypes []string `env:"ALLOWED_FILE_TYPES" envSeparator:"," envDefault:"application/pdf,image/jpeg,image/png,application/vnd.openxmlformats-officedocument.wordprocessingml.document"`

	// Rate limiting
	RateLimitEnabled   bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Outbound mail settings. Carried for deployment parity; no component
	// sends mail.
	SMTPServer     string `env:"SMTP_SERVER" envDefault:"smtp.gmail.com"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	RecipientEmail string `env:"RECIPIENT_EMAIL"`
	EmailSubject   string `env:"EMAIL_SUBJECT" envDefault:"Pydf Suggestion"`

	// Ambient
	Logger logger.Config
}

var loadEnvOnce sync.Once

// Load parses the configuration from the environment and validates it.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	loadEnvOnce.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every configuration rule and aggregates all violations
// into a single error so one boot attempt surfaces every problem.
func (c *Config) Validate() error {
	var violations []error

	if c.Port < 1 || c.Port > 65535 {
		violations = append(violations, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if len(nonEmpty(c.AllowedOrigins)) == 0 {
		violations = append(violations, errors.New("ALLOWED_ORIGINS must be set"))
	}
	if c.MaxFileSize <= 0 {
		violations = append(violations, errors.New("MAX_FILE_SIZE must be greater than 0"))
	}
	if len(nonEmpty(c.AllowedFileTypes)) == 0 {
		violations = append(violations, errors.New("ALLOWED_FILE_TYPES must be set"))
	}
	if c.RateLimitEnabled && c.RateLimitPerMinute <= 0 {
		violations = append(violations, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}

	if len(violations) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, violations...)...)
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AllowsType reports whether the detected content type is accepted for
// upload. The zero-byte octet-stream fallback is never in the allow-list.
func (c *Config) AllowsType(contentType string) bool {
	for _, t := range c.AllowedFileTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// nonEmpty drops empty entries, so ALLOWED_ORIGINS="" does not smuggle a
// single empty origin past validation.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
