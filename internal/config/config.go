// Package config loads and validates InfeRDF's run-time parameters: the
// module page size, saturation budgets, schema/rule-set paths, and
// logging knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all InfeRDF configuration.
type Config struct {
	// PageSize is the module codec's page size in bytes (spec §6). Must
	// be a power of two.
	PageSize uint32 `yaml:"page_size"`

	// Saturation bounds the rule engine's fixpoint loop.
	Saturation SaturationConfig `yaml:"saturation"`

	// Schema lists rule-set file paths. cmd/inferdf build does not read
	// them; it takes its rules from the --facts document.
	Schema SchemaConfig `yaml:"schema"`

	// Logging configures the categorized logger.
	Logging LoggingConfig `yaml:"logging"`
}

// SaturationConfig bounds the rule engine's fixpoint loop (spec §4.5).
type SaturationConfig struct {
	// StepBudget caps the number of rule-instantiation attempts, across
	// the plain and universal phases, before the engine gives up and
	// reports non-termination.
	StepBudget int `yaml:"step_budget"`

	// FactLimit caps the number of facts a single graph may hold before
	// the engine aborts saturation.
	FactLimit int `yaml:"fact_limit"`
}

// SchemaConfig lists rule-set file paths; no command of cmd/inferdf reads
// them.
type SchemaConfig struct {
	RulePaths []string `yaml:"rule_paths"`
}

// LoggingConfig configures the categorized logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Dir    string `yaml:"dir"`    // directory for per-category log files; empty means stderr only
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize: 4096,
		Saturation: SaturationConfig{
			StepBudget: 10000,
			FactLimit:  1000000,
		},
		Schema: SchemaConfig{
			RulePaths: nil,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}

	return nil
}

// applyEnvOverrides applies INFERDF_-prefixed environment variable
// overrides on top of whatever Load already parsed from file/defaults.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INFERDF_PAGE_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.PageSize = uint32(n)
		}
	}
	if v := os.Getenv("INFERDF_STEP_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Saturation.StepBudget = n
		}
	}
	if v := os.Getenv("INFERDF_FACT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Saturation.FactLimit = n
		}
	}
	if v := os.Getenv("INFERDF_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INFERDF_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("INFERDF_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
}

// ValidLogLevels lists all supported logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists all supported logging output formats.
var ValidLogFormats = []string{"json", "console"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.PageSize == 0 || c.PageSize&(c.PageSize-1) != 0 {
		return fmt.Errorf("page size must be a power of two, got %d", c.PageSize)
	}
	if c.Saturation.StepBudget <= 0 {
		return fmt.Errorf("saturation step budget must be positive, got %d", c.Saturation.StepBudget)
	}
	if c.Saturation.FactLimit <= 0 {
		return fmt.Errorf("saturation fact limit must be positive, got %d", c.Saturation.FactLimit)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	validFormat := false
	for _, f := range ValidLogFormats {
		if c.Logging.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}

	return nil
}
