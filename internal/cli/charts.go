package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/wizard"
)

var chartsLimit int

var chartsCmd = &cobra.Command{
	Use:   "charts [kind]",
	Short: "Show this week's Billboard charts",
	Long: `Show one Billboard chart, or all of them.

Kinds: hot100, billboard200, global200, artist100. With no kind in a
terminal, a picker is shown; otherwise every chart is printed.

Examples:
  lilt charts hot100
  lilt charts --limit 10
  lilt charts artist100 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCharts,
}

func init() {
	chartsCmd.Flags().IntVarP(&chartsLimit, "limit", "n", 20, "entries per chart (0 for all)")
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo := newChartRepository(newFeedClient())

	var kind *core.ChartKind
	if len(args) == 1 {
		k, ok := core.ParseChartKind(args[0])
		if !ok {
			return fmt.Errorf("unknown chart %q (want hot100, billboard200, global200 or artist100)", args[0])
		}
		kind = &k
	} else if !JSONOutput() {
		picked, err := wizard.NewInteractive().PromptChart()
		if err != nil {
			return err
		}
		kind = picked
	}

	var list []core.Chart
	if kind != nil {
		chart, err := repo.Load(ctx, *kind)
		if err != nil {
			return fmt.Errorf("failed to load chart: %w", err)
		}
		list = []core.Chart{chart}
	} else {
		result, err := repo.FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load charts: %w", err)
		}
		list = result.Data
		if result.HasErrors() {
			printf("Some charts failed to load: %s\n", result.ErrorSummary())
		}
	}

	for i := range list {
		if chartsLimit > 0 && len(list[i].Items) > chartsLimit {
			list[i].Items = list[i].Items[:chartsLimit]
		}
	}

	if JSONOutput() {
		return printJSON(list)
	}

	for i, chart := range list {
		if i > 0 {
			printf("\n")
		}
		printChart(chart)
	}
	return nil
}

func printChart(chart core.Chart) {
	printf("%s", chart.Kind.Title())
	if chart.Date != "" {
		printf(" (%s)", chart.Date)
	}
	printf("\n")

	if len(chart.Items) == 0 {
		printf("No entries.\n")
		return
	}

	table := NewTable("RANK", "NAME", "ARTIST", "LAST", "PEAK", "WEEKS", "MOVE")
	for _, item := range chart.Items {
		artist := item.ArtistName()
		if artist == "" {
			artist = "-"
		}
		table.Row(
			fmt.Sprintf("%d", item.Rank),
			TruncateString(item.Name, 36),
			TruncateString(artist, 28),
			optionalInt(item.LastWeekRank),
			optionalInt(item.PeakRank),
			weeksLabel(item.WeeksOnChart),
			chartMovement(item),
		)
	}
	table.Flush()
}
