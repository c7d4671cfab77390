package extraction

import (
	"fmt"
	"os"
	"time"
)

// Config holds optical extraction service parameters.
type Config struct {
	OCRBaseURL   string `toml:"ocr_base_url"`
	OCRAPIKey    string `toml:"ocr_api_key"`
	PollInterval string `toml:"poll_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	OCRBaseURL   string
	OCRAPIKey    string
	PollInterval string
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.OCRBaseURL != "" {
		c.OCRBaseURL = overlay.OCRBaseURL
	}
	if overlay.OCRAPIKey != "" {
		c.OCRAPIKey = overlay.OCRAPIKey
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
}

func (c *Config) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "2s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.OCRBaseURL != "" {
		if v := os.Getenv(env.OCRBaseURL); v != "" {
			c.OCRBaseURL = v
		}
	}
	if env.OCRAPIKey != "" {
		if v := os.Getenv(env.OCRAPIKey); v != "" {
			c.OCRAPIKey = v
		}
	}
	if env.PollInterval != "" {
		if v := os.Getenv(env.PollInterval); v != "" {
			c.PollInterval = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	return nil
}
