package main

import (
	"context"
	"errors"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/ericmagro/feynman-bot/internal/notify"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily scheduler loop",
	Long: `Run in the foreground, posting once per day at the configured UTC
hour. Each post follows the weekly schedule and is delivered to the
configured webhook if one is set.

The loop posts at most once per calendar date and survives generation
failures by retrying at the next scheduled slot.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.SkipIfPostedToday = true
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var hook *notify.Webhook
	if cfg.WebhookURL != "" {
		hook = notify.NewWebhook(cfg.WebhookURL)
	}

	ctx := cmd.Context()
	printMuted(cmd.OutOrStdout(), "scheduler running, posting daily at %02d:00 UTC", cfg.PostHourUTC)

	for {
		next := nextFiring(time.Now().UTC(), cfg.PostHourUTC)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := postOnce(ctx, cmd, engine, hook); err != nil {
			printWarning(cmd.ErrOrStderr(), "daily post failed: %v", err)
		}
	}
}

func postOnce(ctx context.Context, cmd *cobra.Command, engine *feynman.Engine, hook *notify.Webhook) error {
	result, err := engine.Daily(ctx, time.Now().UTC())
	if errors.Is(err, feynman.ErrAlreadyPostedToday) {
		return nil
	}
	if err != nil && !isSaveFailure(err) {
		return err
	}
	if isSaveFailure(err) {
		printWarning(cmd.ErrOrStderr(), "post generated but history was not saved: %v", err)
	}
	if hook != nil {
		if werr := hook.Post(ctx, deliveryText(result)); werr != nil {
			printWarning(cmd.ErrOrStderr(), "webhook delivery failed: %v", werr)
		}
	}
	printMuted(cmd.OutOrStdout(), "posted %s (%s) at %s", result.Post.Mode, result.Post.Topic,
		result.Post.Timestamp.Format(time.RFC3339))
	return nil
}

// nextFiring returns the next occurrence of hour:00 UTC strictly after now.
func nextFiring(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
