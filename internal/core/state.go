package core

import "time"

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Song      *Song         `json:"song"`
	IsPlaying bool          `json:"is_playing"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
}

// HasSong returns true if a song is selected.
func (s *PlaybackState) HasSong() bool {
	return s != nil && s.Song != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration) * 100
	if p > 100 {
		return 100
	}
	return p
}
