package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lilt/internal/tui/styles"
)

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	// Show overlays if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSummary {
		return m.renderSummary()
	}

	if m.showPlayer {
		player := m.nowPlaying.RenderFull(&m.playback, m.isFavorite, m.width, m.height-1)
		return lipgloss.JoinVertical(lipgloss.Left, player, m.renderStatusBar())
	}

	header := m.renderHeader()
	nowPlaying := m.nowPlaying.Render(&m.playback, m.isFavorite, m.width-2)
	statusBar := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(nowPlaying) - lipgloss.Height(statusBar)

	var body string
	switch m.screen {
	case ScreenHome:
		body = m.renderHome(bodyHeight)
	case ScreenCharts:
		body = m.chartsView.Render(m.charts, m.chartIndex, m.chartsLoading, m.chartsErr, m.width-2, bodyHeight-2)
	case ScreenSaved:
		body = m.savedView.Render(m.saved, m.savedCursor, m.app.SignedIn(), m.savedLoading, m.width-2, bodyHeight-2)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, nowPlaying, statusBar)
}

func (m Model) renderHeader() string {
	active := lipgloss.NewStyle().Padding(0, 1).Bold(true).Background(styles.Primary).Foreground(styles.Base)
	inactive := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.TextMuted)

	tabs := make([]string, 0, len(screenNames)+1)
	tabs = append(tabs, styles.Highlight.Render("lilt "))
	for i, name := range screenNames {
		if Screen(i) == m.screen {
			tabs = append(tabs, active.Render(name))
		} else {
			tabs = append(tabs, inactive.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderHome(height int) string {
	if m.err != nil && len(m.songs) == 0 {
		banner := lipgloss.JoinVertical(lipgloss.Center,
			styles.ErrorText.Render("Error: "+m.err.Error()),
			"",
			styles.Muted.Render("Press r to retry"),
		)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, banner)
	}

	if m.loading && len(m.songs) == 0 {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render("Loading playlist..."))
	}

	picksHeight := min(len(m.picks)+3, height/3)
	picks := m.picksView.Render(m.picks, -1, m.playback.Song, m.favorites, m.width-2, picksHeight, false)
	list := m.songList.Render(m.songs, m.cursor, m.playback.Song, m.favorites, m.width-2, height-lipgloss.Height(picks)-2, true)

	parts := []string{picks, list}
	if m.err != nil {
		parts = append([]string{styles.ErrorText.Render("Refresh failed: " + m.err.Error() + " (r to retry)")}, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  tab:screen  enter:play  space:play/pause  n/p:skip  f:save  s:summary  o:player")

	if m.toast != "" {
		status = styles.Toast.Render(m.toast)
	} else if m.loading && len(m.songs) > 0 {
		status = styles.Muted.Render("Refreshing...")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderSummary() string {
	var title string
	if m.playback.Song != nil {
		title = m.playback.Song.Label()
	}

	text := m.summary
	if m.summaryLoading {
		text = "Loading summary..."
	}

	width := max(min(m.width-8, 72), 20)
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Highlight.Render(title),
		"",
		lipgloss.NewStyle().Width(width).Render(text),
		"",
		styles.Dim.Render("Press Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(body))
}

func (m Model) renderHelp() string {
	title := "lilt - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next screen
  Shift+Tab    Previous screen
  o            Open/close player
  Esc          Close player

  Playback
  ────────
  Space        Play/Pause
  n            Next song
  p            Previous song
  ←/→          Seek 10s
  f            Save/remove favorite
  s            Song summary
  y            Copy "title - artist"
  w            Search on YouTube

  Home
  ────
  j/↓ k/↑      Move
  Enter        Play selected
  1-5          Play a pick
  r            Refresh playlist

  Charts
  ──────
  [ ]          Previous/next chart
  r            Reload charts

  Saved
  ─────
  Enter        Play selected
  d            Remove from favorites

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(strings.TrimRight(help, "\n")))
}
