// Package playback plays remote mp3 tracks through the ebiten audio engine.
package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
)

const (
	// maxTrackSize bounds a downloaded track.
	maxTrackSize = 64 << 20

	// bytesPerFrame is 16-bit stereo as produced by the mp3 decoder.
	bytesPerFrame = 4

	monitorInterval = 200 * time.Millisecond
)

// Fetcher downloads track data.
type Fetcher interface {
	Get(ctx context.Context, url string, limit int64) ([]byte, error)
}

// ErrReleased is returned by Play after Release.
var ErrReleased = errors.New("player released")

// errSuperseded is returned by a Play call that a newer Play replaced.
var errSuperseded = fmt.Errorf("playback superseded: %w", context.Canceled)

// track is the subset of *audio.Player the controller drives.
type track interface {
	Play()
	Pause()
	IsPlaying() bool
	Position() time.Duration
	SetPosition(offset time.Duration) error
	Rewind() error
	Close() error
}

// decoder turns downloaded bytes into a playable track and its length.
type decoder func(data []byte) (track, time.Duration, error)

// Player implements core.Player on top of ebiten's audio context.
type Player struct {
	fetch     Fetcher
	decode    decoder
	listeners listenerSet

	mu         sync.Mutex
	current    track
	url        string
	length     time.Duration
	playing    bool
	released   bool
	gen        uint64
	cancelLoad context.CancelFunc

	stop        chan struct{}
	releaseOnce sync.Once
}

var _ core.Player = (*Player)(nil)

// New creates a player. Only one audio context can exist per process, so an
// existing context is reused with its sample rate.
func New(fetch Fetcher, sampleRate int) *Player {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return newPlayer(fetch, mp3Decoder(ctx), monitorInterval)
}

func newPlayer(fetch Fetcher, decode decoder, interval time.Duration) *Player {
	p := &Player{
		fetch:  fetch,
		decode: decode,
		stop:   make(chan struct{}),
	}
	go p.monitor(interval)
	return p
}

func mp3Decoder(ctx *audio.Context) decoder {
	return func(data []byte) (track, time.Duration, error) {
		stream, err := mp3.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode track: %w", err)
		}
		ap, err := ctx.NewPlayer(stream)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create audio player: %w", err)
		}
		return ap, frameDuration(stream.Length(), ctx.SampleRate()), nil
	}
}

// Play downloads and starts url, replacing whatever was loaded. A later Play
// cancels this one's download and wins even if this one finishes last.
func (p *Player) Play(ctx context.Context, url string) error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return ErrReleased
	}
	if p.cancelLoad != nil {
		p.cancelLoad()
	}
	p.gen++
	gen := p.gen
	loadCtx, cancel := context.WithCancel(ctx)
	p.cancelLoad = cancel
	p.mu.Unlock()
	defer cancel()

	data, err := p.fetch.Get(loadCtx, url, maxTrackSize)
	if err != nil {
		if p.superseded(gen) {
			return errSuperseded
		}
		return fmt.Errorf("failed to download track: %w", err)
	}

	t, length, err := p.decode(data)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		_ = t.Close()
		return ErrReleased
	}
	if gen != p.gen {
		p.mu.Unlock()
		_ = t.Close()
		slog.Debug("dropping superseded track", "url", url)
		return errSuperseded
	}
	if p.current != nil {
		_ = p.current.Close()
	}
	p.current = t
	p.url = url
	p.length = length
	p.playing = true
	t.Play()
	p.mu.Unlock()

	slog.Debug("playing track", "url", url, "duration", length)
	p.listeners.notify(true)
	return nil
}

func (p *Player) superseded(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen != p.gen || p.released
}

// Resume continues the loaded track. A finished track restarts from the top.
func (p *Player) Resume() error {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return lilterrors.ErrNoSongSelected
	}
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	if p.length > 0 && p.current.Position() >= p.length {
		if err := p.current.Rewind(); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to rewind: %w", err)
		}
	}
	p.current.Play()
	p.playing = true
	p.mu.Unlock()

	p.listeners.notify(true)
	return nil
}

// Pause stops output and keeps the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	if p.current == nil || !p.playing {
		p.mu.Unlock()
		return nil
	}
	p.current.Pause()
	p.playing = false
	p.mu.Unlock()

	p.listeners.notify(false)
	return nil
}

// SeekTo moves the playback position, clamped to the track.
func (p *Player) SeekTo(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return lilterrors.ErrNoSongSelected
	}
	position = clamp(position, p.length)
	if err := p.current.SetPosition(position); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// IsPlaying reports whether audio is being produced.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return 0
	}
	return clamp(p.current.Position(), p.length)
}

// Duration returns the length of the loaded track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.length
}

// AddListener registers l for playing-state changes.
func (p *Player) AddListener(l core.PlaybackListener) {
	p.listeners.add(l)
}

// RemoveListener unregisters l.
func (p *Player) RemoveListener(l core.PlaybackListener) {
	p.listeners.remove(l)
}

// Release stops playback and frees the loaded track. Safe to call repeatedly.
func (p *Player) Release() error {
	var err error
	p.releaseOnce.Do(func() {
		close(p.stop)

		p.mu.Lock()
		if p.cancelLoad != nil {
			p.cancelLoad()
		}
		if p.current != nil {
			err = p.current.Close()
			p.current = nil
		}
		p.playing = false
		p.released = true
		p.mu.Unlock()

		p.listeners.clear()
	})
	return err
}

// monitor reports tracks that stop on their own.
func (p *Player) monitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			ended := p.playing && p.current != nil && !p.current.IsPlaying()
			if ended {
				p.playing = false
			}
			url := p.url
			p.mu.Unlock()

			if ended {
				slog.Debug("track ended", "url", url)
				p.listeners.notify(false)
			}
		}
	}
}

func frameDuration(byteLength int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || byteLength <= 0 {
		return 0
	}
	frames := byteLength / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

func clamp(d, max time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if max > 0 && d > max {
		return max
	}
	return d
}
