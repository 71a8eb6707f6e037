// Package config loads cflow settings from YAML files and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for cflow
type Config struct {
	// CacheEnabled toggles the render cache for graph runs.
	CacheEnabled bool `yaml:"cache_enabled" env:"CFLOW_CACHE_ENABLED"`

	// CachePath is the file the render cache persists to between runs.
	CachePath string `yaml:"cache_path" env:"CFLOW_CACHE_PATH"`

	// CacheMaxEntries caps how many renders the cache keeps. 0 means
	// unlimited.
	CacheMaxEntries int `yaml:"cache_max_entries" env:"CFLOW_CACHE_MAX_ENTRIES"`

	// Logging
	Verbose bool `yaml:"verbose" env:"CFLOW_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CacheEnabled:    true,
		CachePath:       defaultCachePath(),
		CacheMaxEntries: 1024,
		Verbose:         false,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cflow/render.cache"
	}
	return filepath.Join(home, ".cflow", "render.cache")
}

// globalConfigFilePath returns the global config file path (~/.cflow/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cflow/config.yaml"
	}
	return filepath.Join(home, ".cflow", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.cflow/config.yaml)
func projectConfigFilePath() string {
	return ".cflow/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.cflow/config.yaml)
// 3. Global config (~/.cflow/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// GlobalPath returns where Save should put the global config.
func GlobalPath() string {
	return globalConfigFilePath()
}

// ProjectPath returns where Save should put a project-level config.
func ProjectPath() string {
	return projectConfigFilePath()
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CFLOW_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = parseBool(v)
	}
	if v := os.Getenv("CFLOW_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("CFLOW_CACHE_MAX_ENTRIES"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.CacheMaxEntries = i
		}
	}
	if v := os.Getenv("CFLOW_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("cache_max_entries must be non-negative")
	}
	if c.CacheEnabled && c.CachePath == "" {
		return fmt.Errorf("cache_path is required when cache_enabled is true")
	}
	return nil
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}
