// Package config loads the formflow CLI configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the top-level CLI configuration.
type Config struct {
	Schema  SchemaConfig  `yaml:"schema"`
	Session SessionConfig `yaml:"session"`
	Render  RenderConfig  `yaml:"render"`
	Submit  SubmitConfig  `yaml:"submit"`
	Logging LoggingConfig `yaml:"logging"`
}

// SchemaConfig locates the form schema.
type SchemaConfig struct {
	Path string `yaml:"path"`
	// Strict makes lint warnings fatal.
	Strict bool `yaml:"strict"`
}

// SessionConfig tunes form sessions.
type SessionConfig struct {
	HistoryLimit int `yaml:"history_limit"`
	// InferFormats enables key-based format inference for fields that do
	// not declare a format.
	InferFormats bool `yaml:"infer_formats"`
}

// RenderConfig selects and configures the renderer.
type RenderConfig struct {
	Renderer string `yaml:"renderer"` // html, text, json
	Action   string `yaml:"action"`
	Indent   string `yaml:"indent"`
	Strict   bool   `yaml:"strict"`
}

// SubmitConfig controls where submissions go.
type SubmitConfig struct {
	// Output is a file path, "-" for stdout, or empty to skip the JSON dump.
	Output  string `yaml:"output"`
	Indent  string `yaml:"indent"`
	Message string `yaml:"message"`
	Log     bool   `yaml:"log"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// Environment variables read by Load.
const (
	EnvSchema       = "FORMFLOW_SCHEMA"
	EnvRenderer     = "FORMFLOW_RENDERER"
	EnvSubmitOutput = "FORMFLOW_SUBMIT_OUTPUT"
	EnvLogLevel     = "FORMFLOW_LOG_LEVEL"
	EnvLogFormat    = "FORMFLOW_LOG_FORMAT"
	EnvHistoryLimit = "FORMFLOW_HISTORY_LIMIT"
)

// Renderer names accepted by Validate.
var knownRenderers = []string{"html", "json", "text"}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			HistoryLimit: 256,
			InferFormats: true,
		},
		Render: RenderConfig{
			Renderer: "text",
			Indent:   "  ",
		},
		Submit: SubmitConfig{
			Output:  "-",
			Indent:  "  ",
			Message: "Form submitted successfully!",
			Log:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvSchema); v != "" {
		c.Schema.Path = v
	}
	if v := os.Getenv(EnvRenderer); v != "" {
		c.Render.Renderer = v
	}
	if v := os.Getenv(EnvSubmitOutput); v != "" {
		c.Submit.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvHistoryLimit, err)
		}
		c.Session.HistoryLimit = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	renderer := strings.ToLower(strings.TrimSpace(c.Render.Renderer))
	if !contains(knownRenderers, renderer) {
		errs = append(errs, fmt.Errorf("render.renderer %q must be one of %s", c.Render.Renderer, strings.Join(knownRenderers, ", ")))
	}
	if c.Session.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("session.history_limit must not be negative"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
