package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Feeds: FeedsConfig{
			PlaylistURL:      "https://energy.ch/api/channels/bern/playouts/",
			SummaryURL:       "https://text.pollinations.ai/give%20summary%20of%20{title}%20by%20{artist}",
			PlaceholderImage: "https://placehold.co/160x160?text=M",
			ChartBaseURL:     "https://raw.githubusercontent.com/KoreanThinker/billboard-json/main",
			Timeout:          30,
		},
		Cache: CacheConfig{
			TTL: 300,
		},
		Player: PlayerConfig{
			SampleRate:       44100,
			ProgressInterval: 1000,
		},
		Favorites: FavoritesConfig{
			Driver: "sqlite3",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * 30,
		},
		Server: ServerConfig{
			Listen: ":3000",
		},
		Tail: TailConfig{
			Interval: 30000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 300000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Feeds
	if c.Feeds.PlaylistURL == "" {
		c.Feeds.PlaylistURL = d.Feeds.PlaylistURL
	}
	if c.Feeds.SummaryURL == "" {
		c.Feeds.SummaryURL = d.Feeds.SummaryURL
	}
	if c.Feeds.PlaceholderImage == "" {
		c.Feeds.PlaceholderImage = d.Feeds.PlaceholderImage
	}
	if c.Feeds.ChartBaseURL == "" {
		c.Feeds.ChartBaseURL = d.Feeds.ChartBaseURL
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = d.Feeds.Timeout
	}

	// Cache
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	// Player
	if c.Player.SampleRate == 0 {
		c.Player.SampleRate = d.Player.SampleRate
	}
	if c.Player.ProgressInterval == 0 {
		c.Player.ProgressInterval = d.Player.ProgressInterval
	}

	// Favorites
	if c.Favorites.Driver == "" {
		c.Favorites.Driver = d.Favorites.Driver
	}

	// Auth
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = d.Auth.SessionTTL
	}

	// Server
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
