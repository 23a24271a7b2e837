package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/tui/styles"
)

// Charts displays one chart at a time with tabs for the others
type Charts struct {
	offset int
}

// NewCharts creates a new Charts component
func NewCharts() *Charts {
	return &Charts{}
}

// ScrollDown scrolls the chart down
func (c *Charts) ScrollDown() {
	c.offset++
}

// ScrollUp scrolls the chart up
func (c *Charts) ScrollUp() {
	if c.offset > 0 {
		c.offset--
	}
}

// Reset scrolls back to the top
func (c *Charts) Reset() {
	c.offset = 0
}

// Render renders the charts panel
func (c *Charts) Render(charts []core.Chart, active int, loading bool, errText string, width, height int) string {
	var tabs []string
	for i, kind := range core.ChartKinds {
		label := " " + kind.Title() + " "
		if i == active {
			tabs = append(tabs, styles.Highlight.Render("["+label+"]"))
		} else {
			tabs = append(tabs, styles.Dim.Render(" "+label+" "))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var content string
	switch {
	case loading:
		content = styles.Muted.Render("Loading charts...")
	case errText != "":
		content = styles.ErrorText.Render(errText)
	case active < 0 || active >= len(charts):
		content = styles.Muted.Render("No chart data")
	default:
		content = c.renderChart(charts[active], width-4, height-6)
	}

	panel := styles.Panel(true).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		content,
	))
}

func (c *Charts) renderChart(chart core.Chart, width, maxLines int) string {
	if len(chart.Items) == 0 {
		return styles.Muted.Render("This chart is unavailable right now")
	}

	if maxLines < 2 {
		maxLines = 2
	}
	if c.offset > len(chart.Items)-1 {
		c.offset = len(chart.Items) - 1
	}

	lines := []string{styles.Dim.Render("Week of " + chart.Date)}

	// Fixed overhead: rank (4) + movement (5) + weeks (12) + separators
	const overhead = 26

	end := c.offset + maxLines - 1
	if end > len(chart.Items) {
		end = len(chart.Items)
	}
	for _, item := range chart.Items[c.offset:end] {
		name, artist := fit(item.Name, item.ArtistName(), width-overhead)

		line := fmt.Sprintf("%3d %s %s", item.Rank, movement(item), name)
		if artist != "" {
			line += " — " + styles.Muted.Render(artist)
		}
		if item.WeeksOnChart != nil {
			line += " " + styles.Dim.Render(humanize.Ordinal(*item.WeeksOnChart)+" wk")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func movement(item core.ChartItem) string {
	delta, ok := item.Movement()
	switch {
	case !ok:
		return lipgloss.NewStyle().Foreground(styles.Info).Render("NEW ")
	case delta > 0:
		return styles.Playing.Render(fmt.Sprintf("▲%-3d", delta))
	case delta < 0:
		return styles.Favorite.Render(fmt.Sprintf("▼%-3d", -delta))
	default:
		return styles.Dim.Render(" -  ")
	}
}
