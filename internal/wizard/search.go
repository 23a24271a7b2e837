package wizard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lilt/internal/core"
)

// Scope selects which song list the picker searches.
type Scope int

const (
	ScopePlaylist Scope = iota
	ScopeSaved
)

var scopeNames = []string{"Playlist", "Saved"}

// SearchFunc is a function that performs a search.
type SearchFunc func(query string, scope Scope) ([]core.Song, error)

// SearchModel is the bubbletea model for the song picker.
type SearchModel struct {
	input     textinput.Model
	results   []core.Song
	cursor    int
	scope     Scope
	search    SearchFunc
	selected  *core.Song
	err       error
	debounce  time.Duration
	lastQuery string
	searching bool
	width     int
	height    int
}

// Styles
var (
	searchTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	searchTabStyle = lipgloss.NewStyle().
			Padding(0, 2)

	searchActiveTabStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Background(lipgloss.Color("205")).
				Foreground(lipgloss.Color("0"))

	searchResultStyle = lipgloss.NewStyle().
				PaddingLeft(2)

	searchSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	searchSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewSearchModel creates a new song picker model. The full list for the
// current scope is shown until the user types.
func NewSearchModel(search SearchFunc) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or artist..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return SearchModel{
		input:     ti,
		search:    search,
		debounce:  200 * time.Millisecond,
		scope:     ScopePlaylist,
		searching: true,
		width:     80,
		height:    20,
	}
}

// Init initializes the model.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doSearch(""))
}

// debounceMsg is sent after the debounce period.
type debounceMsg struct {
	query string
}

// searchResultsMsg contains search results.
type searchResultsMsg struct {
	query   string
	results []core.Song
	err     error
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				song := m.results[m.cursor]
				m.selected = &song
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case "tab", "shift+tab":
			m.scope = (m.scope + 1) % Scope(len(scopeNames))
			m.searching = true
			return m, m.doSearch(m.input.Value())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}
		return m, nil

	case searchResultsMsg:
		// Drop results for a query the user has since changed.
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.searching = false
		m.results = msg.results
		m.err = msg.err
		m.cursor = 0
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.input.Value() != m.lastQuery {
		query := m.input.Value()
		cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// doSearch performs the search.
func (m SearchModel) doSearch(query string) tea.Cmd {
	search, scope := m.search, m.scope
	return func() tea.Msg {
		results, err := search(query, scope)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(searchTitleStyle.Render("🔍 Pick a song"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, tab := range scopeNames {
		if Scope(i) == m.scope {
			b.WriteString(searchActiveTabStyle.Render(tab))
		} else {
			b.WriteString(searchTabStyle.Render(tab))
		}
	}
	b.WriteString("\n\n")

	// Results
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + m.err.Error()))
	} else if m.searching {
		b.WriteString("Searching...")
	} else if len(m.results) == 0 {
		b.WriteString("No songs found")
	} else {
		maxResults := m.height - 10
		if maxResults < 5 {
			maxResults = 5
		}
		for i, song := range m.results {
			if i >= maxResults {
				b.WriteString(searchSubtitleStyle.Render("  ...and more"))
				break
			}

			line := song.Title + " " + searchSubtitleStyle.Render(song.Artist)
			if song.PlayTime != "" {
				line += searchSubtitleStyle.Render(" · " + song.PlayTime)
			}

			if i == m.cursor {
				b.WriteString(searchSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(searchResultStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(searchSubtitleStyle.Render("↑/↓ navigate • tab switch list • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected song, or nil if none.
func (m SearchModel) Selected() *core.Song {
	return m.selected
}

// RunSearch runs the song picker and returns the selected song.
func RunSearch(search SearchFunc) (*core.Song, error) {
	model := NewSearchModel(search)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SearchModel).Selected(), nil
}
