// Package api serves the playlist, charts and favorites over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
)

const shutdownTimeout = 5 * time.Second

// SongSource provides the playlist and song summaries.
type SongSource interface {
	FetchSongs(ctx context.Context, forceReload bool) ([]core.Song, error)
	FetchSongSummary(ctx context.Context, song core.Song) string
}

// ChartSource provides chart snapshots.
type ChartSource interface {
	Load(ctx context.Context, kind core.ChartKind) (core.Chart, error)
	FetchAll(ctx context.Context) (*lilterrors.PartialResult[[]core.Chart], error)
}

// Server is the JSON API.
type Server struct {
	songs  SongSource
	charts ChartSource
	store  favorites.Store
	secret []byte
	echo   *echo.Echo
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	accessLog io.Writer
}

// WithAccessLog sets where request lines are written. Defaults to stderr.
func WithAccessLog(w io.Writer) Option {
	return func(o *serverOptions) {
		o.accessLog = w
	}
}

// NewServer builds the router. Favorites routes require a bearer token signed
// with secret; they are omitted when store is nil.
func NewServer(songs SongSource, charts ChartSource, store favorites.Store, secret []byte, opts ...Option) *Server {
	o := serverOptions{accessLog: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		songs:  songs,
		charts: charts,
		store:  store,
		secret: secret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
		Output: o.accessLog,
	}))

	e.GET("/health", s.health)
	e.GET("/songs", s.listSongs)
	e.GET("/songs/summary", s.songSummary)
	e.GET("/charts", s.listCharts)
	e.GET("/charts/:kind", s.getChart)

	if store != nil {
		favs := e.Group("/favorites")
		favs.Use(middleware.JWT(secret))
		{
			favs.GET("", s.listFavorites)
			favs.PUT("", s.saveFavorite)
			favs.DELETE("/:title", s.deleteFavorite)
		}
	}

	s.echo = e
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
