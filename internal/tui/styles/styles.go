package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Colors, assigned by Apply from a catppuccin flavour.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor

	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Surface   lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
	Base      lipgloss.TerminalColor
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Favorite  lipgloss.Style
	ErrorText lipgloss.Style
	Toast     lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
	NoBorder      lipgloss.Style
)

// Themes lists the accepted theme names.
var Themes = []string{"auto", "latte", "frappe", "macchiato", "mocha"}

func init() {
	Apply("auto")
}

// flavor returns the catppuccin flavour for a theme name.
func flavor(name string) (catppuccin.Flavor, bool) {
	switch strings.ToLower(name) {
	case "latte":
		return catppuccin.Latte, true
	case "frappe":
		return catppuccin.Frappe, true
	case "macchiato":
		return catppuccin.Macchiato, true
	case "mocha":
		return catppuccin.Mocha, true
	}
	return nil, false
}

// Apply rebuilds every color and style for the named theme. "auto" and
// unknown names pick Latte or Mocha by terminal background.
func Apply(name string) {
	pick := func(get func(catppuccin.Flavor) catppuccin.Color) lipgloss.TerminalColor {
		if f, ok := flavor(name); ok {
			return lipgloss.Color(get(f).Hex)
		}
		return lipgloss.AdaptiveColor{
			Light: get(catppuccin.Latte).Hex,
			Dark:  get(catppuccin.Mocha).Hex,
		}
	}

	Primary = pick(catppuccin.Flavor.Mauve)
	Secondary = pick(catppuccin.Flavor.Teal)
	Accent = pick(catppuccin.Flavor.Peach)

	Success = pick(catppuccin.Flavor.Green)
	Warning = pick(catppuccin.Flavor.Yellow)
	Error = pick(catppuccin.Flavor.Red)
	Info = pick(catppuccin.Flavor.Blue)

	Surface = pick(catppuccin.Flavor.Surface0)
	Border = pick(catppuccin.Flavor.Surface2)
	Text = pick(catppuccin.Flavor.Text)
	TextMuted = pick(catppuccin.Flavor.Subtext0)
	TextDim = pick(catppuccin.Flavor.Overlay0)
	Base = pick(catppuccin.Flavor.Base)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	Favorite = lipgloss.NewStyle().Foreground(Error)
	ErrorText = lipgloss.NewStyle().Bold(true).Foreground(Error)
	Toast = lipgloss.NewStyle().
		Padding(0, 1).
		Background(Primary).
		Foreground(Base)
	Selected = lipgloss.NewStyle().Background(Surface)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
	NoBorder = lipgloss.NewStyle().
		Border(lipgloss.HiddenBorder())
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width < 0 {
		width = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(Repeat("━", filled)) +
		emptyStyle.Render(Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// FavoriteIcon returns a filled or hollow heart.
func FavoriteIcon(saved bool) string {
	if saved {
		return Favorite.Render("♥")
	}
	return Dim.Render("♡")
}

// Repeat repeats a string n times
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
