package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var factCmd = &cobra.Command{
	Use:   "fact [topic]",
	Short: "Generate a surprising fact on demand",
	Long: `Generate and record a genuinely surprising fact.

A topic argument is used verbatim and bypasses the repetition window;
otherwise a fresh topic is rotated in.

Example:
  feynman fact
  feynman fact "black holes"`,
	Args: cobra.ArbitraryArgs,
	RunE: runFact,
}

func runFact(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	topic := strings.Join(args, " ")
	result, err := engine.Fact(cmd.Context(), topic)
	if isSaveFailure(err) {
		return reportSaveFailure(cmd, result, err)
	}
	if err != nil {
		return err
	}
	return outputResult(cmd, result)
}
