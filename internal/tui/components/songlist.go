package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/tui/styles"
)

// SongList renders a scrollable list of songs with a cursor
type SongList struct {
	title  string
	offset int
}

// NewSongList creates a new SongList component
func NewSongList(title string) *SongList {
	return &SongList{title: title}
}

// Render renders the list panel. current marks the selected song, cursor the
// highlighted row.
func (l *SongList) Render(songs []core.Song, cursor int, current *core.Song, favorites core.FavoriteSet, width, height int, focused bool) string {
	title := styles.PanelTitle(l.title, focused)

	var content string
	if len(songs) == 0 {
		content = styles.Muted.Render("No songs")
	} else {
		content = l.renderSongs(songs, cursor, current, favorites, width-4, height-4, focused)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (l *SongList) renderSongs(songs []core.Song, cursor int, current *core.Song, favorites core.FavoriteSet, width, maxLines int, focused bool) string {
	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}

	// Keep the cursor on screen
	if cursor < l.offset {
		l.offset = cursor
	}
	if cursor >= l.offset+visibleCount {
		l.offset = cursor - visibleCount + 1
	}
	if l.offset >= len(songs) || l.offset < 0 {
		l.offset = 0
	}

	start := l.offset
	end := start + visibleCount
	if end > len(songs) {
		end = len(songs)
	}

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XX. " (4) + marker (2) + " — " (3) + heart and time (9)
	const overhead = 18

	for i := start; i < end; i++ {
		song := songs[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fit(song.Title, song.Artist, width-overhead)

		marker := "  "
		if current != nil && current.Same(song) {
			marker = styles.Playing.Render("▶ ")
		}

		heart := " "
		if favorites.Contains(song.Title) {
			heart = styles.Favorite.Render("♥")
		}

		line := fmt.Sprintf("%s %s%s — %s %s %s",
			styles.Dim.Render(num),
			marker,
			title,
			styles.Muted.Render(artist),
			heart,
			styles.Dim.Render(song.PlayTime))

		if focused && i == cursor {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(songs) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(songs)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fit shortens title and artist to share available columns, giving the
// artist at least a third of the space.
func fit(title, artist string, available int) (string, string) {
	if len(title)+len(artist) <= available {
		return title, artist
	}

	minArtist := available / 3
	if minArtist < 10 {
		minArtist = 10
	}
	if minArtist > available-10 {
		minArtist = available - 10
	}

	artistSpace := minArtist
	if len(artist) < artistSpace {
		artistSpace = len(artist)
	}
	return truncate(title, available-artistSpace), truncate(artist, artistSpace)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
