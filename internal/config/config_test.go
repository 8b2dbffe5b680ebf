package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previewar/product-image-selector/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", cfg.OpenAI.Model)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Scraper.DOMReadyTimeout)
	assert.Equal(t, 2*time.Second, cfg.Scraper.SettleDelay)
	assert.Equal(t, 3, cfg.Scraper.NavRetries)
	assert.Equal(t, 30, cfg.Selector.MaxImages)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_MODEL", "gpt-5-mini")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("SCRAPER_SETTLE_DELAY", "5s")
	t.Setenv("SELECTOR_MAX_IMAGES", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-mini", cfg.OpenAI.Model)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Scraper.SettleDelay)
	assert.Equal(t, 10, cfg.Selector.MaxImages)
}

func TestValidate(t *testing.T) {
	t.Run("missing API key is a config error", func(t *testing.T) {
		cfg := &Config{}
		cfg.Scraper.NavRetries = 1

		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConfig))
	})

	t.Run("valid config passes", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")
		cfg, err := Load()
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})
}
