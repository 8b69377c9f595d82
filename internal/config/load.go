package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
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
		return nil, fmt.Errorf("invalid config: %w", err)
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
		return filepath.Join(home, "Library", "Application Support", "Rangeforge")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Rangeforge")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rangeforge")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "rangeforge")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected, and a
// file that sets terrain.width without terrain.depth gets a square grid. Noise
// and palette sections are checked here since no flag overrides them.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing yaml: %w", err)
	}

	var dims struct {
		Terrain struct {
			Width *int `yaml:"width"`
			Depth *int `yaml:"depth"`
		} `yaml:"terrain"`
	}
	if err := yaml.Unmarshal(data, &dims); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	if dims.Terrain.Width != nil && dims.Terrain.Depth == nil {
		cfg.Terrain.Depth = cfg.Terrain.Width
	}

	if err := cfg.validateNoise(); err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	if err := cfg.validatePalette(); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	return nil
}
