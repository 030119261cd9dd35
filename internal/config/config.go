// Package config loads settings from defaults, a TOML file, and the
// environment. Flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendRemote = "remote"

	DefaultDataFile   = "tasks.json"
	ProjectConfigFile = "tasks.toml"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`

	// Path of the file the config was read from, empty when none was found.
	Source string `toml:"-"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
	Group bool   `toml:"group"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendLocal, Path: DefaultDataFile},
		Log:     LogConfig{Level: "warn", Format: "text"},
		UI:      UIConfig{Theme: "classic"},
	}
}

// Load applies, in order: defaults, the config file, environment variables.
// If path is empty the project file (tasks.toml in the working directory)
// and then the user file (<UserConfigDir>/tasks/config.toml) are tried.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal, BackendMemory, BackendRemote:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want local, memory or remote)", c.Storage.Backend)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text, json or logfmt)", c.Log.Format)
	}
	if c.Storage.Backend == BackendLocal && strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path: empty path for local backend")
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKS_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKS_DATA"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TASKS_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TASKS_GROUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.Group = b
		}
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func findConfigFile() string {
	if _, err := os.Stat(ProjectConfigFile); err == nil {
		return ProjectConfigFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "tasks", "config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
