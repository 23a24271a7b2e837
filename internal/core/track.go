package core

import "strings"

// Song represents a playable track from the station playlist.
type Song struct {
	Title    string `json:"title" yaml:"title"`
	Artist   string `json:"artist" yaml:"artist"`
	ImageURL string `json:"imageUrl" yaml:"image_url"`
	AudioURL string `json:"audioUrl" yaml:"audio_url"`
	PlayTime string `json:"playTime" yaml:"play_time"`
}

// Same reports whether two songs refer to the same audio.
func (s Song) Same(other Song) bool {
	return s.AudioURL == other.AudioURL
}

// Label returns "Title - Artist".
func (s Song) Label() string {
	return s.Title + " - " + s.Artist
}

// IsComplete returns true if the song carries everything needed to play and display it.
func (s Song) IsComplete() bool {
	return strings.TrimSpace(s.Title) != "" &&
		strings.TrimSpace(s.Artist) != "" &&
		strings.TrimSpace(s.AudioURL) != ""
}

// IndexOf returns the position of song in songs, matching by audio URL, or -1.
func IndexOf(songs []Song, song Song) int {
	for i := range songs {
		if songs[i].Same(song) {
			return i
		}
	}
	return -1
}
