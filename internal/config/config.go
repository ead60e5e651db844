package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"contentboard/internal/app"
)

const CurrentVersion = 1

type Config struct {
	Version int           `json:"version"`
	Theme   ThemeConfig   `json:"theme"`
	Cache   CacheConfig   `json:"cache"`
	Library LibraryConfig `json:"library"`
	Board   BoardConfig   `json:"board"`
	Log     LogConfig     `json:"log"`
}

type ThemeConfig struct {
	Active string `json:"active" env:"CONTENTBOARD_THEME"`
}

type CacheConfig struct {
	Enabled bool `json:"enabled" env:"CONTENTBOARD_CACHE_ENABLED"`
}

type LibraryConfig struct {
	Enabled bool   `json:"enabled" env:"CONTENTBOARD_LIBRARY_ENABLED"`
	Path    string `json:"path,omitempty" env:"CONTENTBOARD_LIBRARY_PATH"`
}

type BoardConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type LogConfig struct {
	Level string `json:"level" env:"CONTENTBOARD_LOG_LEVEL"`
	File  string `json:"file,omitempty" env:"CONTENTBOARD_LOG_FILE"`
}

func Default() Config {
	return Config{
		Version: CurrentVersion,
		Theme:   ThemeConfig{Active: "default"},
		Cache:   CacheConfig{Enabled: true},
		Library: LibraryConfig{Enabled: true},
		Board:   BoardConfig{Width: 50, Height: 50},
		Log:     LogConfig{Level: "info"},
	}
}

func EnsureDefaults(cfg *Config) {
	if cfg.Version <= 0 {
		cfg.Version = CurrentVersion
	}
	if cfg.Theme.Active == "" {
		cfg.Theme.Active = "default"
	}
	if cfg.Board.Width <= 0 {
		cfg.Board.Width = Default().Board.Width
	}
	if cfg.Board.Height <= 0 {
		cfg.Board.Height = Default().Board.Height
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func Dir() (string, error) {
	return app.ConfigDir()
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func ThemesDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// LibraryPath is the configured library file or the default one in the
// config directory.
func (c Config) LibraryPath() (string, error) {
	if c.Library.Path != "" {
		return c.Library.Path, nil
	}
	return app.DefaultLibraryPath()
}

func (c Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return app.DefaultLogPath()
}

// Load reads the config file, creating it with defaults on first run, and
// applies environment overrides. Overrides are never written back.
func Load() (Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the config file without environment overrides, for callers
// that modify and save it.
func LoadFile() (Config, error) {
	return loadFile()
}

func loadFile() (Config, error) {
	cfgPath, err := Path()
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := Save(cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", cfgPath, err)
	}
	EnsureDefaults(&cfg)
	return cfg, nil
}

func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	EnsureDefaults(cfg)
	return nil
}

func Save(cfg Config) error {
	EnsureDefaults(&cfg)
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	themesDir := filepath.Join(dir, "themes")
	if err := os.MkdirAll(themesDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, "config.json.tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, "config.json"))
}
