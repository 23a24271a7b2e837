package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/favorites"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{61 * time.Second, "1:01"},
		{3*time.Minute + 29*time.Second + 600*time.Millisecond, "3:30"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Blinding Lights", 8); got != "Blind..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Über", 10); got != "Über" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestFit(t *testing.T) {
	title, artist := fit("Short", "Band", 40)
	if title != "Short" || artist != "Band" {
		t.Errorf("fit() = %q, %q", title, artist)
	}

	title, artist = fit(strings.Repeat("t", 50), strings.Repeat("a", 50), 40)
	if len(title)+len(artist) > 40 {
		t.Errorf("fit() overflowed: %d", len(title)+len(artist))
	}
}

func TestSongListRender(t *testing.T) {
	songs := []core.Song{
		{Title: "Flowers", Artist: "Miley Cyrus", AudioURL: "1", PlayTime: "14:03"},
		{Title: "Houdini", Artist: "Dua Lipa", AudioURL: "2"},
	}
	out := NewSongList("Playlist").Render(songs, 0, &songs[1], core.NewFavoriteSet("Flowers"), 80, 12, true)
	for _, want := range []string{"Playlist", "Flowers", "Dua Lipa", "14:03", "♥", "▶"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	empty := NewSongList("Playlist").Render(nil, 0, nil, nil, 80, 12, false)
	if !strings.Contains(empty, "No songs") {
		t.Error("empty list should say so")
	}
}

func TestChartsRender(t *testing.T) {
	artist := "Kendrick Lamar"
	last, weeks := 3, 2
	charts := []core.Chart{{
		Kind:  core.ChartHot100,
		Date:  "2024-05-04",
		Items: []core.ChartItem{{Name: "Not Like Us", Artist: &artist, Rank: 1, LastWeekRank: &last, WeeksOnChart: &weeks}},
	}}

	out := NewCharts().Render(charts, 0, false, "", 100, 20)
	for _, want := range []string{"Hot 100", "Not Like Us", "Kendrick Lamar", "▲2", "2nd wk", "Week of 2024-05-04"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	out = NewCharts().Render(nil, 0, false, "Failed to load charts: boom", 100, 20)
	if !strings.Contains(out, "Failed to load charts: boom") {
		t.Error("error text should render")
	}
}

func TestSavedRender(t *testing.T) {
	saved := []favorites.Saved{{
		Song:    core.Song{Title: "Flowers", Artist: "Miley Cyrus"},
		SavedAt: time.Now().Add(-3 * time.Hour),
	}}

	out := NewSaved().Render(saved, 0, true, false, 100, 10)
	if !strings.Contains(out, "Flowers") || !strings.Contains(out, "3 hours ago") {
		t.Errorf("render = %q", out)
	}

	out = NewSaved().Render(nil, 0, false, false, 100, 10)
	if !strings.Contains(out, "Sign in") {
		t.Error("signed-out view should prompt to sign in")
	}
}

func TestNowPlayingRender(t *testing.T) {
	song := core.Song{Title: "Flowers", Artist: "Miley Cyrus"}
	state := &core.PlaybackState{Song: &song, IsPlaying: true, Position: 30 * time.Second, Duration: 2 * time.Minute}

	out := NewNowPlaying().Render(state, true, 80)
	for _, want := range []string{"Flowers", "0:30", "2:00", "♥"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	full := NewNowPlaying().RenderFull(state, false, 80, 20)
	if !strings.Contains(full, "Now Playing") {
		t.Error("full player should have a title")
	}

	idle := NewNowPlaying().Render(&core.PlaybackState{}, false, 80)
	if !strings.Contains(idle, "Pick a song") {
		t.Error("idle bar should prompt")
	}
}
