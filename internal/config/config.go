// Package config loads and finalizes the root service configuration from
// TOML files and environment variables. A base config.toml may be overlaid
// by config.<env>.toml, and every field can be overridden through a
// PROCFLOW_* environment variable.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/procflow-io/procflow/internal/extraction"
	"github.com/procflow-io/procflow/internal/generation"
	"github.com/procflow-io/procflow/internal/pipeline"
	"github.com/procflow-io/procflow/pkg/database"
	"github.com/procflow-io/procflow/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvProcflowEnv             = "PROCFLOW_ENV"
	EnvProcflowShutdownTimeout = "PROCFLOW_SHUTDOWN_TIMEOUT"
	EnvProcflowVersion         = "PROCFLOW_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PROCFLOW_DB_HOST",
	Port:            "PROCFLOW_DB_PORT",
	Name:            "PROCFLOW_DB_NAME",
	User:            "PROCFLOW_DB_USER",
	Password:        "PROCFLOW_DB_PASSWORD",
	SSLMode:         "PROCFLOW_DB_SSL_MODE",
	MaxOpenConns:    "PROCFLOW_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROCFLOW_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROCFLOW_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROCFLOW_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "PROCFLOW_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROCFLOW_STORAGE_CONNECTION_STRING",
	AccountURL:       "PROCFLOW_STORAGE_ACCOUNT_URL",
	MaxListSize:      "PROCFLOW_STORAGE_MAX_LIST_SIZE",
}

var generationEnv = &generation.Env{
	BaseURL: "PROCFLOW_GENERATION_BASE_URL",
	APIKey:  "PROCFLOW_GENERATION_API_KEY",
	Model:   "PROCFLOW_GENERATION_MODEL",
}

var extractionEnv = &extraction.Env{
	OCRBaseURL:   "PROCFLOW_OCR_BASE_URL",
	OCRAPIKey:    "PROCFLOW_OCR_API_KEY",
	PollInterval: "PROCFLOW_OCR_POLL_INTERVAL",
}

var pipelineEnv = &pipeline.Env{
	MaxConcurrentJobs: "PROCFLOW_PIPELINE_MAX_CONCURRENT_JOBS",
	StageTimeout:      "PROCFLOW_PIPELINE_STAGE_TIMEOUT",
}

// Config is the root configuration for the procflow service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Generation      generation.Config `toml:"generation"`
	Extraction      extraction.Config `toml:"extraction"`
	Pipeline        pipeline.Config   `toml:"pipeline"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the PROCFLOW_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvProcflowEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Generation.Merge(&overlay.Generation)
	c.Extraction.Merge(&overlay.Extraction)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Generation.Finalize(generationEnv); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvProcflowShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvProcflowVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvProcflowEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
