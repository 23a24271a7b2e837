// Package songs fetches the station playlist and per-song summaries.
package songs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/lilt/internal/config"
	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/feed"
)

// Summary placeholders shown instead of an error.
const (
	SummaryEmpty       = "Could not retrieve summary."
	summaryStatusFmt   = "Summary not available (Error: %d)."
	summaryFailurePfx  = "Failed to load summary: "
	playTimeLayout     = "15:04"
	defaultCacheWindow = 5 * time.Minute
)

// playout is one entry of the playlist feed. Every field may be null.
type playout struct {
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	ImageURL *string `json:"imageUrl"`
	AudioURL *string `json:"audioUrl"`
	PlayFrom *string `json:"playFrom"`
}

// Repository serves the playlist with a short-lived in-memory cache.
type Repository struct {
	client      *feed.Client
	playlistURL string
	summaryURL  string
	placeholder string
	ttl         time.Duration
	loc         *time.Location
	now         func() time.Time

	mu       sync.Mutex
	cache    []core.Song
	cachedAt time.Time
	lastHash uint64
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithLocation sets the zone used to render play times.
func WithLocation(loc *time.Location) Option {
	return func(r *Repository) {
		r.loc = loc
	}
}

// NewRepository creates a repository for the feeds in cfg.
func NewRepository(client *feed.Client, cfg config.FeedsConfig, ttl time.Duration, opts ...Option) *Repository {
	if ttl <= 0 {
		ttl = defaultCacheWindow
	}
	r := &Repository{
		client:      client,
		playlistURL: cfg.PlaylistURL,
		summaryURL:  cfg.SummaryURL,
		placeholder: cfg.PlaceholderImage,
		ttl:         ttl,
		loc:         time.Local,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchSongs returns the playlist. A non-empty cached list younger than the
// cache window is returned as is unless forceReload is set.
func (r *Repository) FetchSongs(ctx context.Context, forceReload bool) ([]core.Song, error) {
	if !forceReload {
		r.mu.Lock()
		if len(r.cache) > 0 && r.now().Sub(r.cachedAt) < r.ttl {
			cached := r.cache
			r.mu.Unlock()
			return cached, nil
		}
		r.mu.Unlock()
	}

	var entries []playout
	if err := r.client.GetJSON(ctx, r.playlistURL, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	songs := make([]core.Song, 0, len(entries))
	for _, e := range entries {
		if s, ok := r.toSong(e); ok {
			songs = append(songs, s)
		}
	}

	r.store(songs)
	return songs, nil
}

// CachedAt returns when the cache was last replaced; zero if never.
func (r *Repository) CachedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cachedAt
}

func (r *Repository) store(songs []core.Song) {
	hash, err := hashstructure.Hash(songs, hashstructure.FormatV2, nil)
	if err != nil {
		slog.Debug("failed to hash playlist", "error", err)
	}

	r.mu.Lock()
	changed := hash != r.lastHash
	r.cache = songs
	r.cachedAt = r.now()
	r.lastHash = hash
	r.mu.Unlock()

	slog.Debug("playlist refreshed", "songs", len(songs), "changed", changed)
}

func (r *Repository) toSong(e playout) (core.Song, bool) {
	s := core.Song{
		Title:    deref(e.Title),
		Artist:   deref(e.Artist),
		AudioURL: deref(e.AudioURL),
		ImageURL: deref(e.ImageURL),
		PlayTime: r.formatPlayTime(deref(e.PlayFrom)),
	}
	if !s.IsComplete() {
		return core.Song{}, false
	}
	if strings.TrimSpace(s.ImageURL) == "" {
		s.ImageURL = r.placeholder
	}
	return s, true
}

// formatPlayTime renders an RFC 3339 timestamp as local HH:MM, or "" if it
// cannot be parsed.
func (r *Repository) formatPlayTime(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return t.In(r.loc).Format(playTimeLayout)
}

// FetchSongSummary returns a short text about song. Failures are reported as
// human-readable placeholder text instead of an error.
func (r *Repository) FetchSongSummary(ctx context.Context, song core.Song) string {
	endpoint := SummaryURL(r.summaryURL, song.Title, song.Artist)

	body, err := r.client.GetText(ctx, endpoint)
	if err != nil {
		if code := feed.StatusCode(err); code != 0 {
			return fmt.Sprintf(summaryStatusFmt, code)
		}
		slog.Debug("summary request failed", "title", song.Title, "error", err)
		return summaryFailurePfx + err.Error()
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return SummaryEmpty
	}
	return body
}

// SummaryURL substitutes the query-escaped title and artist into template.
func SummaryURL(template, title, artist string) string {
	return strings.NewReplacer(
		"{title}", url.QueryEscape(title),
		"{artist}", url.QueryEscape(artist),
	).Replace(template)
}

// CleanSummary prepares summary text for display.
func CleanSummary(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
