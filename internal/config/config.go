package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// AppName is used for config and data directory names.
const AppName = "lilt"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.liltrc, $XDG_CONFIG_HOME/lilt/config.toml, ~/.config/lilt/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".liltrc"
	}
	return filepath.Join(home, ".liltrc")
}

// DataDir returns the directory for session and favorites files.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".liltrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, AppName, "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Feeds
	if v := os.Getenv("LILT_FEEDS_PLAYLIST_URL"); v != "" {
		cfg.Feeds.PlaylistURL = v
	}
	if v := os.Getenv("LILT_FEEDS_SUMMARY_URL"); v != "" {
		cfg.Feeds.SummaryURL = v
	}
	if v := os.Getenv("LILT_FEEDS_CHART_BASE_URL"); v != "" {
		cfg.Feeds.ChartBaseURL = v
	}

	// Cache
	if v := os.Getenv("LILT_CACHE_TTL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTL = i
		}
	}

	// Favorites
	if v := os.Getenv("LILT_FAVORITES_DRIVER"); v != "" {
		cfg.Favorites.Driver = v
	}
	if v := os.Getenv("LILT_FAVORITES_DSN"); v != "" {
		cfg.Favorites.DSN = v
	}

	// Auth
	if v := os.Getenv("LILT_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}

	// Server
	if v := os.Getenv("LILT_SERVER_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}

	// TUI
	if v := os.Getenv("LILT_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("LILT_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("LILT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LILT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
