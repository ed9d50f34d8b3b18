package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardMMD")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardMMD")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-mmd")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-mmd")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// ErrInvalidConfig is returned for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings the animation and texture code cannot use.
func (c *Config) Validate() error {
	if c.Gaze.Smoothing <= 0 || c.Gaze.Smoothing > 1 {
		return fmt.Errorf("gaze.smoothing %v not in (0, 1]: %w", c.Gaze.Smoothing, ErrInvalidConfig)
	}
	if c.Sway.Smoothing <= 0 || c.Sway.Smoothing > 1 {
		return fmt.Errorf("sway.smoothing %v not in (0, 1]: %w", c.Sway.Smoothing, ErrInvalidConfig)
	}
	if c.Gaze.HeadYawLimit < 0 || c.Gaze.HeadPitchLimit < 0 || c.Gaze.EyeYawLimit < 0 || c.Gaze.EyePitchLimit < 0 {
		return fmt.Errorf("gaze limits must be non-negative: %w", ErrInvalidConfig)
	}
	if c.Textures.Workers < 1 {
		return fmt.Errorf("textures.workers %d < 1: %w", c.Textures.Workers, ErrInvalidConfig)
	}
	if c.Textures.MaxSize < 0 {
		return fmt.Errorf("textures.max_size %d < 0: %w", c.Textures.MaxSize, ErrInvalidConfig)
	}
	return nil
}
