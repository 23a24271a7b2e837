package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/lilt/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
	search  SearchFunc
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the song picker.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.search = fn
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSong launches the song picker if interactive mode is available.
// Returns the selected song, or nil if cancelled or not interactive.
func (i *Interactive) PromptSong() (*core.Song, error) {
	if !i.CanInteract() || i.search == nil {
		return nil, nil
	}
	return RunSearch(i.search)
}

// PromptChart launches the chart picker if interactive mode is available.
func (i *Interactive) PromptChart() (*core.ChartKind, error) {
	if !i.CanInteract() {
		return nil, nil
	}
	return RunChartPicker(core.ChartKinds)
}

// NeedsSong returns true if a song argument is required but missing.
func NeedsSong(args []string) bool {
	return len(args) == 0
}
