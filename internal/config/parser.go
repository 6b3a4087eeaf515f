package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ParseConfig decodes a JSON config over the defaults, so a file only
// needs the keys it changes.
func ParseConfig(byteConfig []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(byteConfig, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	cfg.OutputDir = absPath
	return cfg, nil
}

// Load reads and parses the config file at path. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Location == "" {
		return fmt.Errorf("location must not be empty")
	}
	if c.DaysBack < 0 {
		return fmt.Errorf("days_back must not be negative, got %d", c.DaysBack)
	}
	if c.Schedule.Time != "" {
		if _, err := time.Parse("15:04", c.Schedule.Time); err != nil {
			return fmt.Errorf("schedule time %q is not HH:MM: %w", c.Schedule.Time, err)
		}
	}
	if c.Email.Enabled && c.Email.To == "" {
		return fmt.Errorf("email enabled but no recipient configured")
	}
	return nil
}
