package main

import (
	"fmt"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/ericmagro/feynman-bot/internal/archive"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show posting statistics from the archive",
	Long: `Summarize the post archive: totals, per-mode counts, and the most
frequent topics. Requires --archive-file or FEYNMAN_ARCHIVE_FILE.

With --backfill, posts present in the history file but missing from the
archive are copied in first.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Bool("backfill", false, "copy history posts missing from the archive before reporting")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.ArchivePath == "" {
		return fmt.Errorf("stats requires an archive, set --archive-file or FEYNMAN_ARCHIVE_FILE")
	}

	arc, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arc.Close()

	if backfill, _ := cmd.Flags().GetBool("backfill"); backfill {
		state := feynman.NewStore(cfg.HistoryPath).Load()
		added, err := arc.Backfill(state.Posts)
		if err != nil {
			return fmt.Errorf("backfilling archive: %w", err)
		}
		printMuted(cmd.OutOrStdout(), "backfilled %d posts\n", added)
	}

	stats, err := arc.Stats()
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	if outputJSON {
		return outputAsJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total posts: %d\n", stats.TotalPosts)
	if stats.TotalPosts == 0 {
		return nil
	}
	fmt.Fprintf(out, "First post:  %s\n", stats.FirstPosted.Format(time.DateOnly))
	fmt.Fprintf(out, "Last post:   %s\n", stats.LastPosted.Format(time.DateOnly))

	fmt.Fprintln(out, "\nBy mode:")
	for _, mode := range feynman.ValidModes() {
		if n, ok := stats.ByMode[mode]; ok {
			fmt.Fprintf(out, "  %-12s %d\n", mode, n)
		}
	}

	if len(stats.TopTopics) > 0 {
		fmt.Fprintln(out, "\nTop topics:")
		for _, tc := range stats.TopTopics {
			fmt.Fprintf(out, "  %-30s %d\n", tc.Topic, tc.Count)
		}
	}
	return nil
}
