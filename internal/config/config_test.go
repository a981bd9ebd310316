package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfkit/internal/config"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func validConfig() *config.Config {
	return &config.Config{
		Host:               "0.0.0.0",
		Port:               8000,
		AllowedOrigins:     []string{"http://localhost:3000"},
		MaxFileSize:        100 << 20,
		AllowedFileTypes:   []string{upload.TypePDF, upload.TypeJPEG},
		RateLimitEnabled:   true,
		RateLimitPerMinute: 30,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("empty origins", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.AllowedOrigins = nil
		err := cfg.Validate()
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "ALLOWED_ORIGINS")
	})

	t.Run("single empty origin", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.AllowedOrigins = []string{""}
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
	})

	t.Run("non-positive size ceiling", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxFileSize = 0
		err := cfg.Validate()
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "MAX_FILE_SIZE")
	})

	t.Run("rate limit zero while enabled", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RateLimitPerMinute = 0
		err := cfg.Validate()
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "RATE_LIMIT_PER_MINUTE")
	})

	t.Run("rate limit zero while disabled passes", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.RateLimitEnabled = false
		cfg.RateLimitPerMinute = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("aggregates every violation", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Port = 0
		cfg.AllowedOrigins = nil
		cfg.MaxFileSize = -1
		cfg.AllowedFileTypes = nil
		cfg.RateLimitPerMinute = 0

		err := cfg.Validate()
		require.Error(t, err)
		for _, fragment := range []string{"PORT", "ALLOWED_ORIGINS", "MAX_FILE_SIZE", "ALLOWED_FILE_TYPES", "RATE_LIMIT_PER_MINUTE"} {
			assert.Contains(t, err.Error(), fragment)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, int64(100<<20), cfg.MaxFileSize)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.AllowsType(upload.TypePDF))
	assert.False(t, cfg.AllowsType(upload.TypeOctetStream))
}

func TestAllowsType(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.True(t, cfg.AllowsType(upload.TypePDF))
	assert.True(t, cfg.AllowsType(upload.TypeJPEG))
	assert.False(t, cfg.AllowsType(upload.TypeXLSX))
	assert.False(t, cfg.AllowsType(""))
}
