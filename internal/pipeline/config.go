package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds pipeline execution parameters.
type Config struct {
	MaxConcurrentJobs int64  `toml:"max_concurrent_jobs"`
	StageTimeout      string `toml:"stage_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxConcurrentJobs string
	StageTimeout      string
}

// StageTimeoutDuration returns StageTimeout as a time.Duration.
func (c *Config) StageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StageTimeout)
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
	if overlay.MaxConcurrentJobs > 0 {
		c.MaxConcurrentJobs = overlay.MaxConcurrentJobs
	}
	if overlay.StageTimeout != "" {
		c.StageTimeout = overlay.StageTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.MaxConcurrentJobs == 0 {
		c.MaxConcurrentJobs = 4
	}
	if c.StageTimeout == "" {
		c.StageTimeout = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxConcurrentJobs != "" {
		if v := os.Getenv(env.MaxConcurrentJobs); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.MaxConcurrentJobs = n
			}
		}
	}
	if env.StageTimeout != "" {
		if v := os.Getenv(env.StageTimeout); v != "" {
			c.StageTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.MaxConcurrentJobs < 1 {
		return fmt.Errorf("max_concurrent_jobs must be positive: %d", c.MaxConcurrentJobs)
	}
	if _, err := time.ParseDuration(c.StageTimeout); err != nil {
		return fmt.Errorf("invalid stage_timeout: %w", err)
	}
	return nil
}
