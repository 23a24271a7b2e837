// Package tui is the interactive terminal client.
package tui

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/lilt/internal/browser"
	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
)

// SongSource provides the playlist and song summaries.
type SongSource interface {
	FetchSongs(ctx context.Context, forceReload bool) ([]core.Song, error)
	FetchSongSummary(ctx context.Context, song core.Song) string
}

// ChartSource provides chart snapshots.
type ChartSource interface {
	FetchAll(ctx context.Context) (*lilterrors.PartialResult[[]core.Chart], error)
}

// Options configures an App.
type Options struct {
	// Store and UserID enable favorites. An empty UserID means signed out.
	Store  favorites.Store
	UserID string

	RefreshInterval  time.Duration
	ProgressInterval time.Duration

	// Rand picks the random song selection. Defaults to a time-seeded source.
	Rand *rand.Rand

	// Clipboard and OpenURL default to the system clipboard and browser.
	Clipboard func(string) error
	OpenURL   func(string) error
}

// App holds the dependencies and lifetime of one TUI session
type App struct {
	songs  SongSource
	charts ChartSource
	player core.Player
	store  favorites.Store
	userID string

	refreshInterval  time.Duration
	progressInterval time.Duration
	rand             *rand.Rand
	copyText         func(string) error
	openURL          func(string) error

	ctx       context.Context
	cancel    context.CancelFunc
	relay     *playbackRelay
	closeOnce sync.Once
}

// NewApp wires the TUI to its repositories and player and registers for
// playback callbacks. Call Close when done.
func NewApp(songs SongSource, charts ChartSource, player core.Player, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		songs:            songs,
		charts:           charts,
		player:           player,
		store:            opts.Store,
		userID:           opts.UserID,
		refreshInterval:  opts.RefreshInterval,
		progressInterval: opts.ProgressInterval,
		rand:             opts.Rand,
		copyText:         opts.Clipboard,
		openURL:          opts.OpenURL,
		ctx:              ctx,
		cancel:           cancel,
		relay:            &playbackRelay{ch: make(chan bool, 4)},
	}

	if a.refreshInterval <= 0 {
		a.refreshInterval = 5 * time.Minute
	}
	if a.progressInterval <= 0 {
		a.progressInterval = time.Second
	}
	if a.rand == nil {
		now := uint64(time.Now().UnixNano())
		a.rand = rand.New(rand.NewPCG(now, now>>32))
	}
	if a.copyText == nil {
		a.copyText = clipboard.WriteAll
	}
	if a.openURL == nil {
		a.openURL = browser.Open
	}

	player.AddListener(a.relay)
	return a
}

// SignedIn reports whether favorites are available.
func (a *App) SignedIn() bool {
	return a.userID != "" && a.store != nil
}

// Close unregisters from the player, stops background work and releases the
// player. Only the first call has any effect.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.player.RemoveListener(a.relay)
		a.cancel()
		err = a.player.Release()
	})
	return err
}

// waitForPlayback delivers the next playing-state change from the player.
func (a *App) waitForPlayback() tea.Cmd {
	return func() tea.Msg {
		select {
		case playing := <-a.relay.ch:
			return playingChangedMsg(playing)
		case <-a.ctx.Done():
			return nil
		}
	}
}

// pickRandom returns up to n distinct songs in random order.
func (a *App) pickRandom(songs []core.Song, n int) []core.Song {
	if n > len(songs) {
		n = len(songs)
	}
	picks := make([]core.Song, 0, n)
	for _, i := range a.rand.Perm(len(songs))[:n] {
		picks = append(picks, songs[i])
	}
	return picks
}

// playbackRelay forwards player callbacks into the bubbletea loop. Only the
// latest state matters, so a full buffer drops its oldest value.
type playbackRelay struct {
	ch chan bool
}

func (r *playbackRelay) OnPlayingChanged(playing bool) {
	for {
		select {
		case r.ch <- playing:
			return
		default:
			select {
			case <-r.ch:
			default:
			}
		}
	}
}

// Run starts the TUI and tears the app down when it exits
func Run(app *App) error {
	defer func() { _ = app.Close() }()

	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
