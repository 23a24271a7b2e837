package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the playlist in real-time",
	Long: `Poll the station playlist and print changes as they happen.

Events tracked:
  - Playlist loaded (first poll)
  - New songs added to the playlist
  - Now playing changes
  - Fetch errors

Template fields: .Type .Emoji .Time .Title .Artist .PlayTime .AudioURL .Count .Error

Example:
  lilt tail --timestamp --format '{{.Time}} {{.Title}} by {{.Artist}}'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default from config)")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	if tailFormat != "" {
		if err := tail.ParseTemplate(tailFormat); err != nil {
			return fmt.Errorf("invalid format template: %w", err)
		}
	}

	interval := tailInterval
	if interval <= 0 {
		interval = cfg.TailInterval()
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := tail.NewWatcher(newSongRepository(newFeedClient()), interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for event := range watcher.Events() {
		printf("%s\n", formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
