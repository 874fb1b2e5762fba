package main

import (
	"fmt"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the weekly posting schedule",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	table := engine.ScheduleTable()
	if outputJSON {
		byDay := make(map[string]string, len(table))
		for day, mode := range table {
			byDay[day.String()] = string(mode)
		}
		return outputAsJSON(cmd, byDay)
	}

	out := cmd.OutOrStdout()
	today := time.Now().UTC().Weekday()
	for day := time.Sunday; day <= time.Saturday; day++ {
		mode, ok := table[day]
		if !ok {
			mode = feynman.ModeFact
		}
		marker := " "
		if day == today {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-9s %s\n", marker, day, mode)
	}
	printMuted(out, "\n* today (posts at %02d:00 UTC)", cfg.PostHourUTC)
	return nil
}
