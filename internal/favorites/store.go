// Package favorites persists each user's saved songs.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tessro/lilt/internal/config"
	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
)

// DefaultDBFileName is the sqlite file used when no DSN is configured.
const DefaultDBFileName = "favorites.db"

// Store is a per-user collection of saved songs keyed by title.
type Store interface {
	List(ctx context.Context, userID string) ([]Saved, error)
	Titles(ctx context.Context, userID string) (core.FavoriteSet, error)
	Save(ctx context.Context, userID string, song core.Song) error
	Delete(ctx context.Context, userID, title string) error
}

// Saved is a stored song with the time it was saved.
type Saved struct {
	core.Song `yaml:",inline"`
	SavedAt   time.Time `json:"savedAt" yaml:"saved_at"`
}

type savedRow struct {
	UserID   string `db:"user_id"`
	Title    string `db:"title"`
	Artist   string `db:"artist"`
	ImageURL string `db:"image_url"`
	AudioURL string `db:"audio_url"`
	PlayTime string `db:"play_time"`
	SavedAt  int64  `db:"saved_at"`
}

func (r savedRow) saved() Saved {
	return Saved{
		Song: core.Song{
			Title:    r.Title,
			Artist:   r.Artist,
			ImageURL: r.ImageURL,
			AudioURL: r.AudioURL,
			PlayTime: r.PlayTime,
		},
		SavedAt: time.Unix(r.SavedAt, 0),
	}
}

const schema = `
  create table if not exists saved_songs (
	user_id text not null,
	title text not null,
	artist text not null,
	image_url text not null,
	audio_url text not null,
	play_time text not null,
	saved_at bigint not null,
	primary key (user_id, title)
  );`

// SQLStore implements Store over sqlite or Postgres.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the store described by cfg and makes sure the schema exists.
// An empty sqlite DSN means a file in the lilt data directory.
func Open(ctx context.Context, cfg config.FavoritesConfig) (*SQLStore, error) {
	dsn := cfg.DSN
	if cfg.Driver == "sqlite3" && dsn == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = filepath.Join(dir, DefaultDBFileName)
	}
	return OpenDSN(ctx, cfg.Driver, dsn)
}

// OpenDSN connects using an explicit driver name and DSN.
func OpenDSN(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lilterrors.ErrFavoritesOffline, err)
	}
	if driver == "sqlite3" {
		// sqlite serialises writers; a single connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", lilterrors.ErrFavoritesOffline, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create favorites table: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// List returns the user's saved songs, newest first.
func (s *SQLStore) List(ctx context.Context, userID string) ([]Saved, error) {
	query := s.db.Rebind(`
	  select user_id, title, artist, image_url, audio_url, play_time, saved_at
	  from saved_songs
	  where user_id = ?
	  order by saved_at desc, title;`)

	var rows []savedRow
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	out := make([]Saved, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.saved())
	}
	return out, nil
}

// Titles returns the set of saved titles.
func (s *SQLStore) Titles(ctx context.Context, userID string) (core.FavoriteSet, error) {
	query := s.db.Rebind(`select title from saved_songs where user_id = ?;`)

	var titles []string
	if err := s.db.SelectContext(ctx, &titles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return core.NewFavoriteSet(titles...), nil
}

// Get returns one saved song.
func (s *SQLStore) Get(ctx context.Context, userID, title string) (*Saved, error) {
	query := s.db.Rebind(`
	  select user_id, title, artist, image_url, audio_url, play_time, saved_at
	  from saved_songs
	  where user_id = ? and title = ?;`)

	var row savedRow
	if err := s.db.GetContext(ctx, &row, query, userID, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lilterrors.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to read favorite: %w", err)
	}
	saved := row.saved()
	return &saved, nil
}

// Save stores song under its title, replacing an existing entry.
func (s *SQLStore) Save(ctx context.Context, userID string, song core.Song) error {
	if strings.TrimSpace(song.Title) == "" {
		return fmt.Errorf("cannot save a song without a title")
	}

	query := s.db.Rebind(`
	  insert into saved_songs (user_id, title, artist, image_url, audio_url, play_time, saved_at)
	  values (?, ?, ?, ?, ?, ?, ?)
	  on conflict (user_id, title) do update
		set artist = excluded.artist,
			image_url = excluded.image_url,
			audio_url = excluded.audio_url,
			play_time = excluded.play_time,
			saved_at = excluded.saved_at;`)

	_, err := s.db.ExecContext(ctx, query, userID, song.Title, song.Artist, song.ImageURL,
		song.AudioURL, song.PlayTime, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// Delete removes the song with title. Deleting a missing song is not an error.
func (s *SQLStore) Delete(ctx context.Context, userID, title string) error {
	query := s.db.Rebind(`delete from saved_songs where user_id = ? and title = ?;`)
	if _, err := s.db.ExecContext(ctx, query, userID, title); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
