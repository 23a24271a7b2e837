package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tessro/lilt/internal/charts"
	"github.com/tessro/lilt/internal/config"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/feed"
	"github.com/tessro/lilt/internal/session"
	"github.com/tessro/lilt/internal/songs"
)

// secretFileName holds the generated signing secret when none is configured.
const secretFileName = "secret"

func newFeedClient() *feed.Client {
	return feed.New(feed.WithTimeout(cfg.FeedTimeout()))
}

func newSongRepository(client *feed.Client) *songs.Repository {
	return songs.NewRepository(client, cfg.Feeds, cfg.CacheTTL())
}

func newChartRepository(client *feed.Client) *charts.Repository {
	return charts.NewRepository(client, cfg.Feeds.ChartBaseURL)
}

// newSessionManager builds the session manager, creating a local signing
// secret on first use if the config has none.
func newSessionManager() (*session.Manager, error) {
	secret := cfg.Auth.Secret
	if secret == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		secret, err = session.LoadOrCreateSecret(filepath.Join(dir, secretFileName))
		if err != nil {
			return nil, err
		}
	}

	storage, err := session.NewStorage(cfg.Auth.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}
	return session.NewManager(secret, cfg.SessionTTL(), storage), nil
}

// requireSession returns the signed-in session or ErrNotSignedIn.
func requireSession() (*session.Session, error) {
	mgr, err := newSessionManager()
	if err != nil {
		return nil, err
	}
	s, err := mgr.Current()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, lilterrors.ErrNotSignedIn
	}
	return s, nil
}

func openFavorites(ctx context.Context) (*favorites.SQLStore, error) {
	return favorites.Open(ctx, cfg.Favorites)
}
