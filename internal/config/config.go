package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/previewar/product-image-selector/internal/models"
)

type Config struct {
	OpenAI   OpenAIConfig
	Browser  BrowserConfig
	Scraper  ScraperConfig
	Selector SelectorConfig
	Logging  LoggingConfig
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ProxyServer    string
}

type ScraperConfig struct {
	DOMReadyTimeout time.Duration
	SettleDelay     time.Duration
	NavRetries      int
	OutputDir       string
}

type SelectorConfig struct {
	MaxImages int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     os.Getenv("OPENAI_BASE_URL"),
			Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-5"),
			VisionModel: getEnvOrDefault("OPENAI_VISION_MODEL", "gpt-5"),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", defaultUserAgent),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1280),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1024),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/New_York"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
			ProxyServer:    os.Getenv("BROWSER_PROXY"),
		},
		Scraper: ScraperConfig{
			DOMReadyTimeout: getDurationOrDefault("SCRAPER_DOM_READY_TIMEOUT", 20*time.Second),
			SettleDelay:     getDurationOrDefault("SCRAPER_SETTLE_DELAY", 2*time.Second),
			NavRetries:      getIntOrDefault("SCRAPER_NAV_RETRIES", 3),
			OutputDir:       getEnvOrDefault("SCRAPER_OUTPUT_DIR", "."),
		},
		Selector: SelectorConfig{
			MaxImages: getIntOrDefault("SELECTOR_MAX_IMAGES", 30),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set: %w", models.ErrConfig)
	}

	if c.Selector.MaxImages < 0 {
		return fmt.Errorf("SELECTOR_MAX_IMAGES must not be negative: %w", models.ErrConfig)
	}

	if c.Scraper.NavRetries < 1 {
		return fmt.Errorf("SCRAPER_NAV_RETRIES must be at least 1: %w", models.ErrConfig)
	}

	return nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// loadDotEnv loads KEY=VALUE pairs from a local .env file without
// overriding variables already present in the environment.
func loadDotEnv() {
	for _, path := range []string{".env", "../.env"} {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			k = strings.TrimSpace(k)
			v = strings.Trim(strings.TrimSpace(v), `"'`)
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
		f.Close()
		return
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
