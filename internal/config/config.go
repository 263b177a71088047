// Package config loads runtime settings from a YAML file or the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DefaultDatabase  = "neobrutal.db"
	DefaultNamespace = "neo-brutalism-tasks"
	DefaultListen    = "127.0.0.1:8080"
)

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	Database   string `yaml:"database" env:"NEOBRUTAL_DB" env-default:"neobrutal.db"`
	Namespace  string `yaml:"namespace" env:"NEOBRUTAL_NAMESPACE" env-default:"neo-brutalism-tasks"`
	LogLevel   string `yaml:"log_level" env:"NEOBRUTAL_LOG_LEVEL" env-default:"info"`
	Listen     string `yaml:"listen" env:"NEOBRUTAL_LISTEN" env-default:"127.0.0.1:8080"`
	SyncWrites bool   `yaml:"sync_writes" env:"NEOBRUTAL_SYNC_WRITES" env-default:"false"`
}

// Load reads the config file at path, or only the environment when path is
// empty. Environment variables override values from the file.
func Load(path string) (*Config, error) {
	cfg := new(Config)

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("invalid config: namespace must not be empty")
	}
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("invalid config: database must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level %q: must be one of %v", s, ValidLogLevels)
}

// Usage describes the environment variables Config reads.
func Usage() string {
	desc, err := cleanenv.GetDescription(new(Config), nil)
	if err != nil {
		return ""
	}
	return desc
}
