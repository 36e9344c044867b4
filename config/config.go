// Package config loads service configuration from YAML with environment
// variable overrides. Precedence: defaults, then file, then environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/pipewright/errors"
)

// Config is the complete service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Engine  EngineConfig  `yaml:"engine"`
	Docs    DocsConfig    `yaml:"docs"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP gateway
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// EngineConfig controls the execution engine and instance monitoring
type EngineConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	BufferInterval time.Duration `yaml:"buffer_interval"`
}

// DocsConfig controls the documentation fetcher
type DocsConfig struct {
	BaseURL string `yaml:"base_url"`
}

// EventsConfig controls NATS state-change publishing
type EventsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// LoggingConfig controls structured logging output
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			PollInterval:   50 * time.Millisecond,
			BufferInterval: 10 * time.Millisecond,
		},
		Docs: DocsConfig{
			BaseURL: "https://gstreamer.freedesktop.org/documentation",
		},
		Events: EventsConfig{
			Enabled:       false,
			URL:           "nats://localhost:4222",
			SubjectPrefix: "pipewright",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path when non-empty, overlaid by environment variables
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.WrapInvalid(err, "Config", "Load",
				fmt.Sprintf("check that %s exists and is readable", path))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.WrapInvalid(
				fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
				"Config", "Load", "fix the YAML syntax")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays PIPEWRIGHT_* environment variables
func (c *Config) applyEnv() {
	setString(&c.Server.Host, "PIPEWRIGHT_HOST")
	setInt(&c.Server.Port, "PIPEWRIGHT_PORT")
	setDuration(&c.Server.RequestTimeout, "PIPEWRIGHT_REQUEST_TIMEOUT")
	setDuration(&c.Engine.PollInterval, "PIPEWRIGHT_POLL_INTERVAL")
	setDuration(&c.Engine.BufferInterval, "PIPEWRIGHT_BUFFER_INTERVAL")
	setString(&c.Docs.BaseURL, "PIPEWRIGHT_DOCS_URL")
	setBool(&c.Events.Enabled, "PIPEWRIGHT_EVENTS_ENABLED")
	setString(&c.Events.URL, "PIPEWRIGHT_NATS_URL")
	setString(&c.Events.SubjectPrefix, "PIPEWRIGHT_NATS_SUBJECT_PREFIX")
	setString(&c.Logging.Level, "PIPEWRIGHT_LOG_LEVEL")
	setString(&c.Logging.Format, "PIPEWRIGHT_LOG_FORMAT")
}

// Validate checks the configuration for values the service cannot run with
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: server port %d out of range", errors.ErrInvalidConfig, c.Server.Port),
			"Config", "Validate", "use a port between 1 and 65535")
	}
	if c.Engine.PollInterval <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: poll interval must be positive", errors.ErrInvalidConfig),
			"Config", "Validate", "set engine.poll_interval to a positive duration")
	}
	if c.Engine.BufferInterval <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: buffer interval must be positive", errors.ErrInvalidConfig),
			"Config", "Validate", "set engine.buffer_interval to a positive duration")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown log level %q", errors.ErrInvalidConfig, c.Logging.Level),
			"Config", "Validate", "use debug, info, warn, or error")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown log format %q", errors.ErrInvalidConfig, c.Logging.Format),
			"Config", "Validate", "use text or json")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: events enabled without a NATS URL", errors.ErrMissingConfig),
			"Config", "Validate", "set events.url or PIPEWRIGHT_NATS_URL")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
