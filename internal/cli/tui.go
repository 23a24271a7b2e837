package cli

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/playback"
	"github.com/tessro/lilt/internal/tui"
	"github.com/tessro/lilt/internal/tui/styles"
)

var (
	tuiRefresh time.Duration
	tuiTheme   string
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive player",
	Long: `Launch the interactive terminal player.

Screens (switch with Tab):
  • Home - five random picks and the full playlist
  • Charts - this week's Billboard charts
  • Saved - your favorite songs (requires 'lilt auth login')

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Enter        Play selected song
  Space        Play/Pause
  n / p        Next / previous song
  ← / →        Seek
  f            Save or remove favorite
  s            Song summary
  o            Full-screen player
  y            Copy title and artist
  w            Search on YouTube

Logs go to log.file from the config, or nowhere.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiRefresh, "refresh", 0, "playlist refresh interval (default from config)")
	tuiCmd.Flags().StringVar(&tuiTheme, "theme", "", "color theme: "+strings.Join(styles.Themes, ", "))
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Anything written to the terminal would corrupt the alternate screen.
	if err := initLogging(io.Discard); err != nil {
		return err
	}

	theme := cfg.TUI.Theme
	if tuiTheme != "" {
		theme = tuiTheme
	}
	styles.Apply(theme)

	refresh := cfg.RefreshInterval()
	if tuiRefresh > 0 {
		refresh = tuiRefresh
	}

	client := newFeedClient()
	opts := tui.Options{
		RefreshInterval:  refresh,
		ProgressInterval: cfg.ProgressInterval(),
	}

	if mgr, err := newSessionManager(); err != nil {
		slog.Warn("sessions unavailable", "error", err)
	} else if s, err := mgr.Current(); err != nil {
		slog.Warn("ignoring stored session", "error", err)
	} else if s != nil {
		store, err := openFavorites(cmd.Context())
		if err != nil {
			slog.Warn("favorites unavailable", "error", err)
		} else {
			defer func() { _ = store.Close() }()
			opts.Store = store
			opts.UserID = s.UserID
		}
	}

	player := playback.New(client, cfg.Player.SampleRate)
	app := tui.NewApp(newSongRepository(client), newChartRepository(client), player, opts)
	return tui.Run(app)
}
