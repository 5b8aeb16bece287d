// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config loads the device client configuration.

Values are resolved in three layers, later layers winning:

  - Built-in defaults.
  - A TOML file, by default ~/.config/mangatrack/config.toml. A missing file is not an error.
  - TRACKER_* environment variables (TRACKER_API_URL, TRACKER_DEBOUNCE_MS, ...).
*/
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultPath       = "~/.config/mangatrack/config.toml"
	DefaultAPIURL     = "http://localhost:3001"
	DefaultCatalogURL = "https://api.jikan.moe/v4"
	DefaultCachePath  = "~/.local/share/mangatrack/cache.db"
	DefaultDebounceMS = 500
	DefaultLogLevel   = "warn"
	DefaultTheme      = "default"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRACKER_"

// Config is the device client configuration.
type Config struct {
	APIURL     string `toml:"api_url" env:"API_URL"`
	CatalogURL string `toml:"catalog_url" env:"CATALOG_URL"`
	CachePath  string `toml:"cache_path" env:"CACHE_PATH"`
	DebounceMS int    `toml:"debounce_ms" env:"DEBOUNCE_MS"`
	LogLevel   string `toml:"log_level" env:"LOG_LEVEL"`
	Theme      string `toml:"theme" env:"THEME"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		APIURL:     DefaultAPIURL,
		CatalogURL: DefaultCatalogURL,
		CachePath:  DefaultCachePath,
		DebounceMS: DefaultDebounceMS,
		LogLevel:   DefaultLogLevel,
		Theme:      DefaultTheme,
	}
}

/*
Load resolves the configuration from path and the environment.

Parameters:
  - path: string (empty selects [DefaultPath])

Returns:
  - Config: With CachePath expanded to an absolute path
  - error: Unreadable or malformed file, bad environment value, or failed validation
*/
func Load(path string) (Config, error) {
	cfg := Defaults()

	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.fillBlanks()
	if cfg.CachePath, err = expandPath(cfg.CachePath); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fillBlanks restores defaults for values a file or variable set to blank.
func (c *Config) fillBlanks() {
	defaults := Defaults()
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.CatalogURL = strings.TrimSpace(c.CatalogURL)
	c.LogLevel = strings.TrimSpace(c.LogLevel)
	c.Theme = strings.TrimSpace(c.Theme)

	if c.APIURL == "" {
		c.APIURL = defaults.APIURL
	}
	if c.CatalogURL == "" {
		c.CatalogURL = defaults.CatalogURL
	}
	if strings.TrimSpace(c.CachePath) == "" {
		c.CachePath = defaults.CachePath
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if c.DebounceMS <= 0 {
		errs = append(errs, fmt.Errorf("debounce_ms must be positive, got %d", c.DebounceMS))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DebounceDelay returns the quiet period before typed edits are saved.
func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
