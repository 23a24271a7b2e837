package core

import (
	"context"
	"time"
)

// PlaybackListener is notified when the player starts or stops producing audio.
type PlaybackListener interface {
	OnPlayingChanged(playing bool)
}

// PlaybackListenerFunc adapts a function to PlaybackListener.
type PlaybackListenerFunc func(playing bool)

// OnPlayingChanged calls f(playing).
func (f PlaybackListenerFunc) OnPlayingChanged(playing bool) {
	f(playing)
}

// Player defines the interface for audio playback control.
type Player interface {
	// Playback control
	Play(ctx context.Context, url string) error
	Resume() error
	Pause() error
	SeekTo(position time.Duration) error

	// State queries
	IsPlaying() bool
	Position() time.Duration
	Duration() time.Duration

	// Callbacks
	AddListener(l PlaybackListener)
	RemoveListener(l PlaybackListener)

	// Release frees the underlying audio resources. The player is unusable afterwards.
	Release() error
}
