package main

import (
	"log/slog"
	"os"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/ericmagro/feynman-bot/internal/archive"
	"github.com/ericmagro/feynman-bot/internal/generate"
	"github.com/spf13/cobra"
)

var (
	cfgHistoryPath = ""
	cfgArchivePath = ""
	cfgModel       = ""
	cfgWebhookURL  = ""
	outputJSON     = false
)

var rootCmd = &cobra.Command{
	Use:   "feynman",
	Short: "Feynman - daily wonder bot",
	Long: `Feynman posts daily short-form physics and math content: surprising
facts, absurd hypotheticals, puzzles with next-day answers, and a weekly
synthesis that ties the week's posts together.

It keeps a durable history so topics rotate instead of repeating, and
occasionally calls back to posts from one to two weeks ago.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgHistoryPath, "history-file", "", "Path to the JSON history state file (default: ./fact_history.json)")
	rootCmd.PersistentFlags().StringVar(&cfgArchivePath, "archive-file", "", "Path to the SQLite post archive (empty disables archiving)")
	rootCmd.PersistentFlags().StringVar(&cfgModel, "model", "", "Generation model identifier")
	rootCmd.PersistentFlags().StringVar(&cfgWebhookURL, "webhook-url", "", "Chat channel webhook URL")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(factCmd)
	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(puzzleCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig merges defaults, environment, and flags (flags win).
func loadConfig() feynman.Config {
	cfg := feynman.ConfigFromEnv()

	if cfgHistoryPath != "" {
		cfg.HistoryPath = cfgHistoryPath
	}
	if cfgArchivePath != "" {
		cfg.ArchivePath = cfgArchivePath
	}
	if cfgModel != "" {
		cfg.Model = cfgModel
	}
	if cfgWebhookURL != "" {
		cfg.WebhookURL = cfgWebhookURL
	}
	return cfg.WithDefaults()
}

// buildEngine wires the generator and optional archive into an engine.
// The returned cleanup closes the archive; callers must invoke it.
func buildEngine(cfg feynman.Config) (*feynman.Engine, func(), error) {
	gen := generate.NewClient(cfg.APIKey, cfg.Model)
	if cfg.BaseURL != "" {
		gen.WithBaseURL(cfg.BaseURL)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := []feynman.Option{feynman.WithLogger(logger)}
	cleanup := func() {}

	if cfg.ArchivePath != "" {
		arc, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			// The archive is a rebuildable mirror; run without it.
			logger.Warn("archive unavailable", "path", cfg.ArchivePath, "error", err)
		} else {
			opts = append(opts, feynman.WithArchiver(arc))
			cleanup = func() { _ = arc.Close() }
		}
	}

	engine, err := feynman.NewEngine(cfg, gen, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}
