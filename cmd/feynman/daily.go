package main

import (
	"errors"
	"fmt"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/ericmagro/feynman-bot/internal/notify"
	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Run the daily post once",
	Long: `Generate today's post according to the weekly schedule, record it,
and deliver it to the configured webhook if one is set.

Any pending puzzle answer is revealed first as part of the same post.
With --skip-dupes, the run is a no-op when a post already exists for
today's date.`,
	Args: cobra.NoArgs,
	RunE: runDaily,
}

func init() {
	dailyCmd.Flags().Bool("skip-dupes", false, "do nothing if a post already exists for today")
}

func runDaily(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if skip, _ := cmd.Flags().GetBool("skip-dupes"); skip {
		cfg.SkipIfPostedToday = true
	}
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.Daily(cmd.Context(), time.Now().UTC())
	if errors.Is(err, feynman.ErrAlreadyPostedToday) {
		printMuted(cmd.OutOrStdout(), "Already posted today, nothing to do.")
		return nil
	}
	if err != nil && !isSaveFailure(err) {
		return err
	}

	if cfg.WebhookURL != "" {
		hook := notify.NewWebhook(cfg.WebhookURL)
		if werr := hook.Post(cmd.Context(), deliveryText(result)); werr != nil {
			printWarning(cmd.ErrOrStderr(), "webhook delivery failed: %v", werr)
		}
	}

	if isSaveFailure(err) {
		return reportSaveFailure(cmd, result, err)
	}
	return outputResult(cmd, result)
}

// deliveryText formats a result the way the webhook channel expects,
// with any revealed answer ahead of the new post.
func deliveryText(result *feynman.Result) string {
	if result.RevealText == "" {
		return result.Post.Content
	}
	return fmt.Sprintf("**Yesterday's puzzle answer:** %s\n\n%s",
		result.RevealText, result.Post.Content)
}
