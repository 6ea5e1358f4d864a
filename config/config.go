// Package config loads the bot's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/nstehr/trooper/rules"
	"gopkg.in/yaml.v3"
)

// Listen names the endpoints the bot serves. An empty address disables
// that listener.
type Listen struct {
	Socket    string `yaml:"socket"`
	WebSocket string `yaml:"websocket"`
	Status    string `yaml:"status"`
}

type Config struct {
	Tuning   rules.Tuning `yaml:"tuning"`
	Listen   Listen       `yaml:"listen"`
	LogLevel string       `yaml:"log_level"`
	Seed     int64        `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Tuning: rules.DefaultTuning(),
		Listen: Listen{
			Socket: "/tmp/trooper.sock",
			Status: "127.0.0.1:8089",
		},
		LogLevel: "info",
		Seed:     1,
	}
}

// Load reads path over the defaults. A missing file is not an error; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Tuning.Validate()
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseLevel maps a log level name onto slog.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
