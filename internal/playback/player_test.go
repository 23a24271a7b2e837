package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
)

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		name       string
		bytes      int64
		sampleRate int
		want       time.Duration
	}{
		{"one second", 44100 * 4, 44100, time.Second},
		{"half second at 48k", 48000 * 2, 48000, 500 * time.Millisecond},
		{"empty", 0, 44100, 0},
		{"bad rate", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, frameDuration(tt.bytes, tt.sampleRate))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, time.Duration(0), clamp(-time.Second, time.Minute))
	assert.Equal(t, time.Minute, clamp(2*time.Minute, time.Minute))
	assert.Equal(t, 5*time.Second, clamp(5*time.Second, 0), "unknown length leaves position alone")
}

type recorder struct {
	events []bool
}

func (r *recorder) OnPlayingChanged(playing bool) {
	r.events = append(r.events, playing)
}

func TestListenerSet(t *testing.T) {
	var s listenerSet
	a, b := &recorder{}, &recorder{}

	s.add(a)
	s.add(b)
	s.add(nil)
	assert.Equal(t, 2, s.len())

	s.notify(true)
	s.remove(a)
	s.notify(false)

	assert.Equal(t, []bool{true}, a.events)
	assert.Equal(t, []bool{true, false}, b.events)

	s.clear()
	assert.Equal(t, 0, s.len())
}

func TestListenerSetFuncListeners(t *testing.T) {
	var s listenerSet
	var got []bool
	fn := core.PlaybackListenerFunc(func(playing bool) { got = append(got, playing) })

	s.add(fn)
	assert.NotPanics(t, func() { s.remove(fn) })
	s.notify(true)
	assert.Equal(t, []bool{true}, got)
}

type fakeTrack struct {
	mu       sync.Mutex
	name     string
	playing  bool
	position time.Duration
	rewinds  int
	closed   bool
}

func (t *fakeTrack) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = true
}

func (t *fakeTrack) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
}

func (t *fakeTrack) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

func (t *fakeTrack) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

func (t *fakeTrack) SetPosition(offset time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = offset
	return nil
}

func (t *fakeTrack) Rewind() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rewinds++
	t.position = 0
	return nil
}

func (t *fakeTrack) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.playing = false
	return nil
}

// finish simulates the track running out.
func (t *fakeTrack) finish(length time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
	t.position = length
}

func (t *fakeTrack) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

const trackLength = 3 * time.Minute

// fakeFetcher serves url as the body. URLs listed in gates block until the
// gate is closed; ctx-aware ones also give up on cancellation.
type fakeFetcher struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	ignoreCtx bool
	started   chan string
	err       error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{gates: map[string]chan struct{}{}, started: make(chan string, 8)}
}

func (f *fakeFetcher) gate(url string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[url] = ch
	return ch
}

func (f *fakeFetcher) Get(ctx context.Context, url string, _ int64) ([]byte, error) {
	f.started <- url
	f.mu.Lock()
	gate := f.gates[url]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		if f.ignoreCtx {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return []byte(url), nil
}

type testPlayer struct {
	*Player
	fetch *fakeFetcher

	mu     sync.Mutex
	tracks map[string]*fakeTrack
}

func newTestPlayer(t *testing.T) *testPlayer {
	t.Helper()
	tp := &testPlayer{fetch: newFakeFetcher(), tracks: map[string]*fakeTrack{}}
	decode := func(data []byte) (track, time.Duration, error) {
		if string(data) == "bad" {
			return nil, 0, errors.New("failed to decode track: bad data")
		}
		tr := &fakeTrack{name: string(data)}
		tp.mu.Lock()
		tp.tracks[tr.name] = tr
		tp.mu.Unlock()
		return tr, trackLength, nil
	}
	tp.Player = newPlayer(tp.fetch, decode, 5*time.Millisecond)
	t.Cleanup(func() { _ = tp.Release() })
	return tp
}

func (tp *testPlayer) track(name string) *fakeTrack {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.tracks[name]
}

// events collects playing-state callbacks.
type events struct {
	mu  sync.Mutex
	got []bool
}

func (e *events) OnPlayingChanged(playing bool) {
	e.mu.Lock()
	e.got = append(e.got, playing)
	e.mu.Unlock()
}

func (e *events) list() []bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]bool(nil), e.got...)
}

func TestPlayReplacesCurrentTrack(t *testing.T) {
	p := newTestPlayer(t)
	ev := &events{}
	p.AddListener(ev)

	require.NoError(t, p.Play(context.Background(), "a"))
	require.NoError(t, p.Play(context.Background(), "b"))

	assert.True(t, p.track("a").isClosed(), "the previous track is closed")
	assert.True(t, p.track("b").IsPlaying())
	assert.True(t, p.IsPlaying())
	assert.Equal(t, trackLength, p.Duration())
	assert.Equal(t, []bool{true, true}, ev.list())
}

func TestPlayDownloadAndDecodeErrors(t *testing.T) {
	p := newTestPlayer(t)

	p.fetch.err = errors.New("boom")
	err := p.Play(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download track")

	p.fetch.err = nil
	err = p.Play(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode track")
	assert.False(t, p.IsPlaying())
}

func TestNewerPlayCancelsPendingDownload(t *testing.T) {
	p := newTestPlayer(t)
	p.fetch.gate("a")

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), "a") }()
	require.Equal(t, "a", <-p.fetch.started)

	require.NoError(t, p.Play(context.Background(), "b"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("earlier Play did not return")
	}
	assert.Nil(t, p.track("a"), "the cancelled download is never decoded")
	assert.True(t, p.track("b").IsPlaying())
}

func TestSlowerEarlierPlayIsDropped(t *testing.T) {
	p := newTestPlayer(t)
	p.fetch.ignoreCtx = true
	gate := p.fetch.gate("a")

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), "a") }()
	require.Equal(t, "a", <-p.fetch.started)

	require.NoError(t, p.Play(context.Background(), "b"))
	close(gate)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("earlier Play did not return")
	}

	require.NotNil(t, p.track("a"))
	assert.True(t, p.track("a").isClosed(), "the stale stream is closed, not played")
	assert.False(t, p.track("b").isClosed())
	assert.True(t, p.track("b").IsPlaying())

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, "b", p.url)
}

func TestPauseKeepsPosition(t *testing.T) {
	p := newTestPlayer(t)
	ev := &events{}
	p.AddListener(ev)

	assert.NoError(t, p.Pause(), "pausing with nothing loaded is a no-op")

	require.NoError(t, p.Play(context.Background(), "a"))
	require.NoError(t, p.SeekTo(42*time.Second))
	require.NoError(t, p.Pause())

	assert.False(t, p.IsPlaying())
	assert.Equal(t, 42*time.Second, p.Position())

	require.NoError(t, p.Resume())
	assert.True(t, p.IsPlaying())
	assert.Equal(t, 42*time.Second, p.Position())
	assert.Zero(t, p.track("a").rewinds)
	assert.Equal(t, []bool{true, false, true}, ev.list())
}

func TestSeekToClamps(t *testing.T) {
	p := newTestPlayer(t)
	assert.ErrorIs(t, p.SeekTo(time.Second), lilterrors.ErrNoSongSelected)

	require.NoError(t, p.Play(context.Background(), "a"))

	require.NoError(t, p.SeekTo(-time.Second))
	assert.Equal(t, time.Duration(0), p.Position())

	require.NoError(t, p.SeekTo(10*time.Minute))
	assert.Equal(t, trackLength, p.Position())
}

func TestResumeRewindsFinishedTrack(t *testing.T) {
	p := newTestPlayer(t)
	assert.ErrorIs(t, p.Resume(), lilterrors.ErrNoSongSelected)

	require.NoError(t, p.Play(context.Background(), "a"))
	require.NoError(t, p.Pause())
	p.track("a").finish(trackLength)

	require.NoError(t, p.Resume())
	assert.Equal(t, 1, p.track("a").rewinds)
	assert.Equal(t, time.Duration(0), p.Position())
	assert.True(t, p.IsPlaying())
}

func TestMonitorReportsTrackEnd(t *testing.T) {
	p := newTestPlayer(t)
	ev := &events{}
	p.AddListener(ev)

	require.NoError(t, p.Play(context.Background(), "a"))
	p.track("a").finish(trackLength)

	assert.Eventually(t, func() bool {
		got := ev.list()
		return len(got) == 2 && !got[1]
	}, time.Second, 5*time.Millisecond)
	assert.False(t, p.IsPlaying())
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := newTestPlayer(t)
	ev := &events{}
	p.AddListener(ev)
	require.NoError(t, p.Play(context.Background(), "a"))

	require.NoError(t, p.Release())
	require.NoError(t, p.Release())

	assert.True(t, p.track("a").isClosed())
	assert.False(t, p.IsPlaying())
	assert.ErrorIs(t, p.Play(context.Background(), "b"), ErrReleased)
	assert.Equal(t, []bool{true}, ev.list(), "listeners are dropped on release")
}

func TestReleaseDropsInFlightPlay(t *testing.T) {
	p := newTestPlayer(t)
	p.fetch.ignoreCtx = true
	gate := p.fetch.gate("a")

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), "a") }()
	require.Equal(t, "a", <-p.fetch.started)

	require.NoError(t, p.Release())
	close(gate)

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Play did not return")
	}
	if tr := p.track("a"); tr != nil {
		assert.True(t, tr.isClosed())
	}
	assert.False(t, p.IsPlaying())
}
