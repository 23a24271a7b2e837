package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/matcher"
)

var (
	exportFormat string
	exportOutput string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"saved", "fav"},
	Short:   "Manage your saved songs",
	Long:    `Commands for listing, saving, removing and exporting saved songs. Requires 'lilt auth login'.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved songs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <title> [artist]",
	Short: "Save a song from the playlist",
	Long: `Save a song that is on the current playlist. The title is matched
loosely, so "flowers" finds "Flowers (Radio Edit)".

Examples:
  lilt favorites add flowers
  lilt favorites add "Flowers" "Miley Cyrus"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <title>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved song",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved songs as YAML or JSON",
	Long: `Write every saved song to stdout or a file.

Examples:
  lilt favorites export
  lilt favorites export --format json -o saved.json`,
	Args: cobra.NoArgs,
	RunE: runFavoritesExport,
}

func init() {
	favoritesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", favorites.FormatYAML, "output format (yaml or json)")
	favoritesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesExportCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := requireSession()
	if err != nil {
		return err
	}
	store, err := openFavorites(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.List(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("failed to load saved songs: %w", err)
	}

	if JSONOutput() {
		if saved == nil {
			saved = []favorites.Saved{}
		}
		return printJSON(saved)
	}

	if len(saved) == 0 {
		printf("No saved songs yet. Press f in 'lilt ui' or run 'lilt favorites add <title>'.\n")
		return nil
	}

	table := NewTable("TITLE", "ARTIST", "SAVED")
	for _, s := range saved {
		table.Row(TruncateString(s.Title, 40), TruncateString(s.Artist, 30), humanSince(s.SavedAt))
	}
	table.Flush()
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := requireSession()
	if err != nil {
		return err
	}

	list, err := newSongRepository(newFeedClient()).FetchSongs(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	var song *core.Song
	if len(args) == 2 {
		if i := matcher.Find(list, core.Song{Title: args[0], Artist: args[1]}); i >= 0 {
			song = &list[i]
		}
	} else if hits := matcher.Rank(list, args[0]); len(hits) > 0 {
		song = &hits[0]
	}
	if song == nil {
		return lilterrors.WithSuggestion(
			fmt.Errorf("%w: %q", lilterrors.ErrSongNotFound, strings.Join(args, " - ")),
			"Only songs on the current playlist can be saved. Run 'lilt songs' to see them",
		)
	}

	store, err := openFavorites(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(ctx, sess.UserID, *song); err != nil {
		return fmt.Errorf("failed to save song: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "saved", "title": song.Title, "artist": song.Artist})
	}
	printf("Saved %s\n", song.Label())
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := requireSession()
	if err != nil {
		return err
	}
	store, err := openFavorites(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.List(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("failed to load saved songs: %w", err)
	}

	title := savedTitle(saved, args[0])
	if title == "" {
		return fmt.Errorf("%w: %q is not saved", lilterrors.ErrSongNotFound, args[0])
	}

	if err := store.Delete(ctx, sess.UserID, title); err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "removed", "title": title})
	}
	printf("Removed %s\n", title)
	return nil
}

// savedTitle resolves query to a saved title, preferring an exact match.
func savedTitle(saved []favorites.Saved, query string) string {
	songs := make([]core.Song, len(saved))
	for i, s := range saved {
		if s.Title == query {
			return s.Title
		}
		songs[i] = s.Song
	}
	if hits := matcher.Rank(songs, query); len(hits) > 0 {
		return hits[0].Title
	}
	return ""
}

func runFavoritesExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := requireSession()
	if err != nil {
		return err
	}
	store, err := openFavorites(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.List(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("failed to load saved songs: %w", err)
	}

	if exportOutput == "" {
		return favorites.Export(stdout, saved, exportFormat)
	}

	f, err := os.OpenFile(exportOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	defer func() { _ = f.Close() }()

	if err := favorites.Export(f, saved, exportFormat); err != nil {
		return err
	}
	printf("Exported %d songs to %s\n", len(saved), exportOutput)
	return nil
}
