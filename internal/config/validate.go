package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	lilterrors "github.com/tessro/lilt/internal/errors"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Feeds.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("feeds: %w", err))
	}
	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Favorites.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("favorites: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", lilterrors.ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks FeedsConfig for errors.
func (c *FeedsConfig) Validate() error {
	for name, raw := range map[string]string{
		"playlist_url":   c.PlaylistURL,
		"chart_base_url": c.ChartBaseURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.SummaryURL != "" && !strings.Contains(c.SummaryURL, "{title}") {
		return errors.New("summary_url must contain {title}")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks CacheConfig for errors.
func (c *CacheConfig) Validate() error {
	if c.TTL < 0 {
		return errors.New("ttl must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	switch c.SampleRate {
	case 0, 22050, 44100, 48000:
		// valid
	default:
		return fmt.Errorf("invalid sample_rate: %d (must be 22050, 44100, or 48000)", c.SampleRate)
	}
	if c.ProgressInterval < 0 {
		return errors.New("progress_interval must be non-negative")
	}
	return nil
}

// Validate checks FavoritesConfig for errors.
func (c *FavoritesConfig) Validate() error {
	switch c.Driver {
	case "", "sqlite3":
		// valid
	case "postgres":
		if c.DSN == "" {
			return errors.New("dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid driver: %s (must be sqlite3 or postgres)", c.Driver)
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "latte", "frappe", "macchiato", "mocha":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, latte, frappe, macchiato, or mocha)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
