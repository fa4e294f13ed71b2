// Package config loads and manages llm-chess configuration.
// Configuration source priority (highest to lowest):
// 1. Environment variables (LLM_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, etc.)
// 2. Config file path specified via --config flag
// 3. ~/.config/llm-chess/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds configuration for a single provider.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ThinkingConfig holds settings for the two-agent thinking mode.
type ThinkingConfig struct {
	// Enabled turns thinking mode on for agent games.
	Enabled bool `yaml:"enabled"`

	// Provider2 names the second agent's provider. Empty = same as the
	// first agent.
	Provider2 string `yaml:"provider2"`

	// MaxRounds bounds the negotiation loop. 0 = unbounded.
	MaxRounds int `yaml:"max_rounds"`
}

// Config is the complete configuration structure for llm-chess.
type Config struct {
	// Provider is the active provider name for the agent seat
	// (e.g. "gemini", "anthropic", "openai").
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// Providers holds per-provider configuration.
	Providers map[string]*ProviderConfig `yaml:"providers"`

	// Thinking holds two-agent thinking mode settings.
	Thinking ThinkingConfig `yaml:"thinking"`

	// Correction enables agent-assisted correction of illegal human
	// moves in agent games.
	Correction bool `yaml:"correction"`

	// MoveDelayMs is the pause between failed negotiation rounds and
	// before an agent reply, in milliseconds.
	MoveDelayMs int `yaml:"move_delay_ms"`

	// DBPath overrides the saved-games database location.
	DBPath string `yaml:"db_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "gemini",
		Providers:   make(map[string]*ProviderConfig),
		MoveDelayMs: 500,
		Thinking: ThinkingConfig{
			MaxRounds: 20,
		},
	}
}

// Load reads the config file and merges environment variable overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file path
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "llm-chess", "config.yaml")
		}
	}

	// Read config file (use defaults if not found)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}

	return cfg, nil
}

// GetProviderConfig returns the config for the named provider, or an empty
// config if not found.
func (c *Config) GetProviderConfig(name string) *ProviderConfig {
	if pc, ok := c.Providers[name]; ok {
		return pc
	}
	return &ProviderConfig{}
}

// Credential returns the API key configured for the named provider.
func (c *Config) Credential(name string) string {
	return c.GetProviderConfig(name).APIKey
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Generic override for the active provider
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		setKey(cfg, cfg.Provider, v)
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}

	// Provider-specific keys
	for name, env := range map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	} {
		if v := os.Getenv(env); v != "" {
			setKey(cfg, name, v)
		}
	}

	// Provider selection
	if v := os.Getenv("LLM_CHESS_PROVIDER"); v != "" {
		cfg.Provider = v
	}
}

func setKey(cfg *Config, name, key string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}
	if cfg.Providers[name] == nil {
		cfg.Providers[name] = &ProviderConfig{}
	}
	cfg.Providers[name].APIKey = key
}
