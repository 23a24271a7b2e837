package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Feeds     FeedsConfig     `toml:"feeds" json:"feeds"`
	Cache     CacheConfig     `toml:"cache" json:"cache"`
	Player    PlayerConfig    `toml:"player" json:"player"`
	Favorites FavoritesConfig `toml:"favorites" json:"favorites"`
	Auth      AuthConfig      `toml:"auth" json:"auth"`
	Server    ServerConfig    `toml:"server" json:"server"`
	Tail      TailConfig      `toml:"tail" json:"tail"`
	TUI       TUIConfig       `toml:"tui" json:"tui"`
	Log       LogConfig       `toml:"log" json:"log"`
}

// FeedsConfig holds the remote endpoints.
type FeedsConfig struct {
	PlaylistURL      string `toml:"playlist_url" json:"playlist_url"`
	SummaryURL       string `toml:"summary_url" json:"summary_url"` // {title} and {artist} are substituted
	PlaceholderImage string `toml:"placeholder_image" json:"placeholder_image"`
	ChartBaseURL     string `toml:"chart_base_url" json:"chart_base_url"`
	Timeout          int    `toml:"timeout" json:"timeout"` // seconds
}

// CacheConfig holds playlist cache settings.
type CacheConfig struct {
	TTL int `toml:"ttl" json:"ttl"` // seconds
}

// PlayerConfig holds audio engine settings.
type PlayerConfig struct {
	SampleRate       int `toml:"sample_rate" json:"sample_rate"`
	ProgressInterval int `toml:"progress_interval" json:"progress_interval"` // milliseconds
}

// FavoritesConfig selects the favorites store.
type FavoritesConfig struct {
	Driver string `toml:"driver" json:"driver"` // sqlite3 or postgres
	DSN    string `toml:"dsn" json:"dsn"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	Secret      string `toml:"secret" json:"-"`
	SessionFile string `toml:"session_file" json:"session_file"`
	SessionTTL  int    `toml:"session_ttl" json:"session_ttl"` // hours
}

// ServerConfig holds JSON API settings.
type ServerConfig struct {
	Listen string `toml:"listen" json:"listen"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval" json:"interval"` // milliseconds
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"` // milliseconds
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// FeedTimeout returns the HTTP timeout for feed requests.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feeds.Timeout) * time.Second
}

// CacheTTL returns the playlist cache window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// ProgressInterval returns the position poll interval.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Player.ProgressInterval) * time.Millisecond
}

// RefreshInterval returns the TUI auto-refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.TUI.RefreshInterval) * time.Millisecond
}

// TailInterval returns the tail poll interval.
func (c *Config) TailInterval() time.Duration {
	return time.Duration(c.Tail.Interval) * time.Millisecond
}

// SessionTTL returns how long issued sessions stay valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTL) * time.Hour
}
