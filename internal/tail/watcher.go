package tail

import (
	"context"
	"log/slog"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/lilt/internal/core"
)

// EventType represents the type of playlist event.
type EventType int

const (
	EventPlaylistLoaded EventType = iota
	EventNowPlaying
	EventNewSong
	EventFetchError
)

// Event represents a playlist change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Song      *core.Song
	Previous  *core.Song
	Count     int
	Err       error
}

// SongSource provides the current playlist.
type SongSource interface {
	FetchSongs(ctx context.Context, forceReload bool) ([]core.Song, error)
}

// Watcher polls the playlist for changes and emits events.
type Watcher struct {
	source   SongSource
	interval time.Duration
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewWatcher creates a new playlist watcher.
func NewWatcher(source SongSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of playlist events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for changes. It blocks until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev []core.Song
	var prevHash uint64
	loaded := false

	poll := func() {
		curr, err := w.source.FetchSongs(ctx, true)
		if err != nil {
			if ctx.Err() == nil {
				w.emit(Event{Type: EventFetchError, Timestamp: w.now(), Err: err})
			}
			return
		}

		hash, err := hashstructure.Hash(curr, hashstructure.FormatV2, nil)
		if err == nil && loaded && hash == prevHash {
			slog.Debug("playlist unchanged", "songs", len(curr))
			return
		}

		var events []Event
		if !loaded {
			events = loadEvents(curr, w.now())
		} else {
			events = diffPlaylists(prev, curr, w.now())
		}
		for _, e := range events {
			w.emit(e)
		}

		prev, prevHash, loaded = curr, hash, true
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
		// Drop event if channel is full
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// loadEvents describes the first successful poll.
func loadEvents(curr []core.Song, now time.Time) []Event {
	events := []Event{{Type: EventPlaylistLoaded, Timestamp: now, Count: len(curr)}}
	if len(curr) > 0 {
		head := curr[0]
		events = append(events, Event{Type: EventNowPlaying, Timestamp: now, Song: &head, Count: len(curr)})
	}
	return events
}

// diffPlaylists compares two playlists and returns detected events. New songs
// are reported oldest first; the feed lists the most recent play first.
func diffPlaylists(prev, curr []core.Song, now time.Time) []Event {
	var events []Event

	for i := len(curr) - 1; i >= 0; i-- {
		if core.IndexOf(prev, curr[i]) == -1 {
			song := curr[i]
			events = append(events, Event{Type: EventNewSong, Timestamp: now, Song: &song, Count: len(curr)})
		}
	}

	if headChanged(prev, curr) {
		e := Event{Type: EventNowPlaying, Timestamp: now, Count: len(curr)}
		if len(curr) > 0 {
			head := curr[0]
			e.Song = &head
		}
		if len(prev) > 0 {
			p := prev[0]
			e.Previous = &p
		}
		events = append(events, e)
	}

	return events
}

// headChanged returns true if the most recent song changed.
func headChanged(prev, curr []core.Song) bool {
	if len(prev) == 0 && len(curr) == 0 {
		return false
	}
	if len(prev) == 0 || len(curr) == 0 {
		return true
	}
	return !prev[0].Same(curr[0])
}
