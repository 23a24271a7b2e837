package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/tui/styles"
)

// NowPlaying displays the selected song and its progress
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the compact now playing bar
func (n *NowPlaying) Render(state *core.PlaybackState, favorite bool, width int) string {
	if !state.HasSong() {
		return styles.Panel(false).Width(width).Render(styles.Muted.Render("Pick a song to start listening"))
	}

	song := state.Song
	head := fmt.Sprintf("%s %s %s %s",
		styles.StatusIcon(state.IsPlaying),
		styles.Title.Render(truncate(song.Title, width/2)),
		styles.Subtitle.Render(truncate(song.Artist, width/3)),
		styles.FavoriteIcon(favorite))

	return styles.Panel(false).Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		head,
		progressLine(state, width-4),
	))
}

// RenderFull renders the full-screen player
func (n *NowPlaying) RenderFull(state *core.PlaybackState, favorite bool, width, height int) string {
	title := styles.PanelTitle("Now Playing", true)

	var content string
	if !state.HasSong() {
		content = styles.Muted.Render("No song selected")
	} else {
		song := state.Song
		meta := song.ImageURL
		if song.PlayTime != "" {
			meta = "Played at " + song.PlayTime
		}
		content = lipgloss.JoinVertical(lipgloss.Center,
			styles.Title.Render(song.Title),
			styles.Subtitle.Render(song.Artist),
			styles.Dim.Render(meta),
			"",
			progressLine(state, width-8),
			"",
			n.renderControls(state, favorite),
		)
	}

	panel := styles.Panel(true).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.PlaceHorizontal(width-4, lipgloss.Center, content),
	))
}

func (n *NowPlaying) renderControls(state *core.PlaybackState, favorite bool) string {
	controls := styles.Dim.Render("⏮  ")

	if state.IsPlaying {
		controls += styles.Playing.Render("⏸")
	} else {
		controls += styles.Paused.Render("▶")
	}

	controls += styles.Dim.Render("  ⏭") + "   " + styles.FavoriteIcon(favorite)
	return controls
}

func progressLine(state *core.PlaybackState, width int) string {
	barWidth := width - 14 // Account for times on either side
	if barWidth < 10 {
		barWidth = 10
	}
	return fmt.Sprintf("%s %s %s",
		FormatDuration(state.Position),
		styles.ProgressBar(state.ProgressPercent(), barWidth),
		FormatDuration(state.Duration))
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
