package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/matcher"
	"github.com/tessro/lilt/internal/songs"
	"github.com/tessro/lilt/internal/wizard"
)

var (
	songsForce bool
	songsFind  string
	songsLimit int

	summaryNoInteractive bool
)

var songsCmd = &cobra.Command{
	Use:     "songs",
	Aliases: []string{"playlist"},
	Short:   "List what the station has been playing",
	Long: `Show the station playlist, most recent first.

Examples:
  lilt songs
  lilt songs --force
  lilt songs --find "flowers"`,
	Args: cobra.NoArgs,
	RunE: runSongs,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [title] [artist]",
	Short: "Show a short summary of a song",
	Long: `Fetch an AI-generated summary of a song.

With only a title, the song is looked up on the current playlist. With no
arguments in a terminal, a picker lets you choose from the playlist or your
saved songs.

Examples:
  lilt summary "Flowers" "Miley Cyrus"
  lilt summary flowers
  lilt summary`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSummary,
}

func init() {
	songsCmd.Flags().BoolVarP(&songsForce, "force", "f", false, "bypass the playlist cache")
	songsCmd.Flags().StringVar(&songsFind, "find", "", "only show songs matching a title or artist")
	songsCmd.Flags().IntVarP(&songsLimit, "limit", "n", 0, "maximum number of songs to show")

	summaryCmd.Flags().BoolVar(&summaryNoInteractive, "no-interactive", false, "never show the song picker")

	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSongs(cmd *cobra.Command, args []string) error {
	repo := newSongRepository(newFeedClient())

	list, err := repo.FetchSongs(cmd.Context(), songsForce)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}
	if songsFind != "" {
		list = matcher.Rank(list, songsFind)
	}
	if songsLimit > 0 && len(list) > songsLimit {
		list = list[:songsLimit]
	}

	if JSONOutput() {
		if list == nil {
			list = []core.Song{}
		}
		return printJSON(list)
	}

	if len(list) == 0 {
		printf("No songs found.\n")
		return nil
	}

	table := NewTable("#", "TIME", "TITLE", "ARTIST")
	for i, s := range list {
		playTime := s.PlayTime
		if playTime == "" {
			playTime = "-"
		}
		table.Row(fmt.Sprintf("%d", i+1), playTime, TruncateString(s.Title, 40), TruncateString(s.Artist, 30))
	}
	table.Flush()
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo := newSongRepository(newFeedClient())

	song, err := resolveSong(ctx, repo, args)
	if err != nil {
		return err
	}
	if song == nil {
		return nil
	}

	text := songs.CleanSummary(repo.FetchSongSummary(ctx, *song))

	if JSONOutput() {
		return printJSON(map[string]string{
			"title":   song.Title,
			"artist":  song.Artist,
			"summary": text,
		})
	}

	printf("%s\n\n%s\n", song.Label(), text)
	return nil
}

// resolveSong turns summary arguments into a song. A nil song with no error
// means the picker was cancelled.
func resolveSong(ctx context.Context, repo *songs.Repository, args []string) (*core.Song, error) {
	switch len(args) {
	case 2:
		target := core.Song{Title: args[0], Artist: args[1]}
		if list, err := repo.FetchSongs(ctx, false); err == nil {
			if i := matcher.Find(list, target); i >= 0 {
				return &list[i], nil
			}
		}
		return &target, nil

	case 1:
		list, err := repo.FetchSongs(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load playlist: %w", err)
		}
		hits := matcher.Rank(list, args[0])
		if len(hits) == 0 {
			return nil, lilterrors.WithSuggestion(
				fmt.Errorf("%w: %q is not on the playlist", lilterrors.ErrSongNotFound, args[0]),
				"Pass the artist too: lilt summary \"<title>\" \"<artist>\"",
			)
		}
		return &hits[0], nil
	}

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!summaryNoInteractive && !JSONOutput())
	if !interactive.CanInteract() {
		return nil, fmt.Errorf("a song title is required when not running in a terminal")
	}
	interactive.SetSearchFunc(songSearch(ctx, repo))
	return interactive.PromptSong()
}

// songSearch backs the song picker with the playlist or the saved list.
func songSearch(ctx context.Context, repo *songs.Repository) wizard.SearchFunc {
	return func(query string, scope wizard.Scope) ([]core.Song, error) {
		var list []core.Song
		switch scope {
		case wizard.ScopeSaved:
			sess, err := requireSession()
			if err != nil {
				return nil, err
			}
			store, err := openFavorites(ctx)
			if err != nil {
				return nil, err
			}
			defer func() { _ = store.Close() }()

			saved, err := store.List(ctx, sess.UserID)
			if err != nil {
				return nil, err
			}
			for _, s := range saved {
				list = append(list, s.Song)
			}
		default:
			var err error
			list, err = repo.FetchSongs(ctx, false)
			if err != nil {
				return nil, err
			}
		}
		return matcher.Rank(list, strings.TrimSpace(query)), nil
	}
}
