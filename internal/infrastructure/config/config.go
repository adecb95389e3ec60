// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for kin configuration.
	DefaultConfigDir = ".kin"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultGraphDir is the default entity record directory.
	DefaultGraphDir = "graph"
)

// Store backends.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Store        StoreConfig         `yaml:"store,omitempty"`
	LLM          LLMConfig           `yaml:"llm,omitempty"`
	SelfEntityID string              `yaml:"self_entity_id,omitempty"`
	Categories   map[string][]string `yaml:"categories,omitempty"`
}

// StoreConfig selects and locates the entity store backend.
type StoreConfig struct {
	// Backend is "jsonfile" (one JSON document per entity) or "sqlite".
	Backend string `yaml:"backend,omitempty"`
	// Path is the graph directory for jsonfile, or the database file for
	// sqlite.
	Path string `yaml:"path,omitempty"`
}

// LLMConfig holds configuration for the fallback question classifier.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// Default returns a Config with default values rooted at basePath.
func Default(basePath string) *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendJSONFile,
			Path:    filepath.Join(basePath, DefaultConfigDir, DefaultGraphDir),
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load loads configuration from the .kin directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'kin init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default(basePath)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Write persists the config to the .kin directory, creating it if needed.
func Write(basePath string, cfg *Config) error {
	dir := filepath.Join(basePath, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
}
