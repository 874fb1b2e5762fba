package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [count]",
	Short: "Show recent posts",
	Long: `List recent posts, most recent first. Shows the last 10 by default.

Example:
  feynman history
  feynman history 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	count := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}
		count = n
	}

	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	posts := engine.History(count)
	if outputJSON {
		return outputAsJSON(cmd, posts)
	}
	if len(posts) == 0 {
		printMuted(cmd.OutOrStdout(), "No posts yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, post := range posts {
		topic := post.Topic
		if topic == "" {
			topic = "-"
		}
		fmt.Fprintf(out, "%s  %-12s %s\n", post.Timestamp.Format("2006-01-02"), post.Mode, topic)
	}
	if engine.PendingAnswer() {
		printMuted(out, "\nA puzzle answer is pending reveal.")
	}
	return nil
}
