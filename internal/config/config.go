// Package config loads the hwbook client configuration: where the batch
// service lives and which access token to present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape.
type Config struct {
	// Server is the base URL of the batch service.
	Server string `yaml:"server"`
	// Token is the family access token attached to every request.
	Token string `yaml:"token"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the diagnostic file log.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // debug/info/warn/error
}

func defaults() Config {
	return Config{
		Server:  "http://localhost:8000",
		Logging: LoggingConfig{Enabled: true, Level: "info"},
	}
}

// Path returns the config file location under the XDG config dir.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hwbook", "config.yaml"), nil
}

// Load reads the config file if present and applies env overrides on top.
// A missing file is not an error; defaults plus env are enough to run.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// applyEnvOverrides lets the environment win over the file, which keeps
// tokens out of the config file when the user prefers that.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HWBOOK_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("HWBOOK_TOKEN"); v != "" {
		c.Token = v
	}
}
