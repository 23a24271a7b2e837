package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/api"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the playlist, charts and favorites as JSON",
	Long: `Run an HTTP API for other clients.

Routes:
  GET    /songs?force=true
  GET    /songs/summary?title=&artist=
  GET    /charts
  GET    /charts/:kind
  GET    /favorites             (Bearer token from 'lilt auth login')
  PUT    /favorites             (body: song JSON)
  DELETE /favorites/:title`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "address to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Listen
	if serveListen != "" {
		addr = serveListen
	}

	mgr, err := newSessionManager()
	if err != nil {
		return err
	}

	store, err := openFavorites(ctx)
	if err != nil {
		return fmt.Errorf("failed to open favorites: %w", err)
	}
	defer func() { _ = store.Close() }()

	client := newFeedClient()
	srv := api.NewServer(newSongRepository(client), newChartRepository(client), store, mgr.Secret(),
		api.WithAccessLog(os.Stderr))
	return srv.Run(ctx, addr)
}
