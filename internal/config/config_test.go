package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	lilterrors "github.com/tessro/lilt/internal/errors"
)

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[cache]
ttl = 60

[tui]
theme = "mocha"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.CacheTTL() != time.Minute {
		t.Errorf("CacheTTL() = %v, want 1m", cfg.CacheTTL())
	}
	if cfg.TUI.Theme != "mocha" {
		t.Errorf("Theme = %q, want mocha", cfg.TUI.Theme)
	}
	if cfg.Feeds.PlaylistURL != Default().Feeds.PlaylistURL {
		t.Errorf("PlaylistURL = %q, want default", cfg.Feeds.PlaylistURL)
	}
	if cfg.RefreshInterval() != 5*time.Minute {
		t.Errorf("RefreshInterval() = %v, want 5m", cfg.RefreshInterval())
	}
	if cfg.ProgressInterval() != time.Second {
		t.Errorf("ProgressInterval() = %v, want 1s", cfg.ProgressInterval())
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LILT_CACHE_TTL", "10")
	t.Setenv("LILT_AUTH_SECRET", "s3cret")
	t.Setenv("LILT_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Cache.TTL != 10 {
		t.Errorf("Cache.TTL = %d, want 10", cfg.Cache.TTL)
	}
	if cfg.Auth.Secret != "s3cret" {
		t.Errorf("Auth.Secret = %q, want s3cret", cfg.Auth.Secret)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"postgres without dsn", func(c *Config) { c.Favorites.Driver = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.Favorites.Driver = "postgres"
			c.Favorites.DSN = "postgres://localhost/lilt"
		}, false},
		{"unknown driver", func(c *Config) { c.Favorites.Driver = "mongo" }, true},
		{"relative playlist url", func(c *Config) { c.Feeds.PlaylistURL = "/playouts" }, true},
		{"summary without title", func(c *Config) { c.Feeds.SummaryURL = "https://example.com/{artist}" }, true},
		{"odd sample rate", func(c *Config) { c.Player.SampleRate = 12345 }, true},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, lilterrors.ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}
