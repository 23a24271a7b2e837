package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/tui/styles"
)

// Saved displays the user's saved songs
type Saved struct{}

// NewSaved creates a new Saved component
func NewSaved() *Saved {
	return &Saved{}
}

// Render renders the saved songs panel
func (s *Saved) Render(saved []favorites.Saved, cursor int, signedIn, loading bool, width, height int) string {
	title := styles.PanelTitle("Saved songs", true)

	var content string
	switch {
	case !signedIn:
		content = styles.Muted.Render("Sign in with 'lilt auth login' to save songs")
	case loading:
		content = styles.Muted.Render("Loading...")
	case len(saved) == 0:
		content = styles.Muted.Render("No saved songs yet. Press f on a song to save it.")
	default:
		content = s.renderSaved(saved, cursor, width-4, height-4)
	}

	panel := styles.Panel(true).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (s *Saved) renderSaved(saved []favorites.Saved, cursor, width, maxLines int) string {
	if cursor >= len(saved) {
		cursor = len(saved) - 1
	}
	if cursor < 0 {
		cursor = 0
	}

	start := 0
	if cursor >= maxLines {
		start = cursor - maxLines + 1
	}

	lines := make([]string, 0, maxLines)

	// Fixed overhead: selector (2) + heart (2) + " — " (3) + saved-at column (16)
	const overhead = 23

	for i := start; i < len(saved) && len(lines) < maxLines; i++ {
		entry := saved[i]
		title, artist := fit(entry.Title, entry.Artist, width-overhead)

		selector := "  "
		if i == cursor {
			selector = "▸ "
			title = styles.Highlight.Render(title)
		}

		line := fmt.Sprintf("%s%s %s — %s  %s",
			selector,
			styles.Favorite.Render("♥"),
			title,
			styles.Muted.Render(artist),
			styles.Dim.Render(humanize.Time(entry.SavedAt)))
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
