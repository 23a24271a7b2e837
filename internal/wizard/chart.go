package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/lilt/internal/core"
)

// ChartModel is the bubbletea model for the chart picker.
type ChartModel struct {
	kinds    []core.ChartKind
	cursor   int
	selected *core.ChartKind
	width    int
	height   int
}

// Styles for chart picker
var (
	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	chartItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	chartSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	chartHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewChartModel creates a new chart picker model.
func NewChartModel(kinds []core.ChartKind) ChartModel {
	return ChartModel{
		kinds:  kinds,
		width:  80,
		height: 20,
	}
}

// Init initializes the model.
func (m ChartModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.kinds) > 0 && m.cursor < len(m.kinds) {
				kind := m.kinds[m.cursor]
				m.selected = &kind
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.kinds)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.kinds) - 1
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m ChartModel) View() string {
	var b strings.Builder

	b.WriteString(chartTitleStyle.Render("📈 Select Chart"))
	b.WriteString("\n\n")

	for i, kind := range m.kinds {
		line := kind.Title() + " " + chartHintStyle.Render("("+string(kind)+")")
		if i == m.cursor {
			b.WriteString(chartSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(chartItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(chartHintStyle.Render("↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected chart, or nil if none.
func (m ChartModel) Selected() *core.ChartKind {
	return m.selected
}

// RunChartPicker runs the chart picker and returns the selected chart.
func RunChartPicker(kinds []core.ChartKind) (*core.ChartKind, error) {
	model := NewChartModel(kinds)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(ChartModel).Selected(), nil
}
