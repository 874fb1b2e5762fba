package main

import (
	"github.com/spf13/cobra"
)

var puzzleCmd = &cobra.Command{
	Use:   "puzzle",
	Short: "Generate a physics or math puzzle",
	Long: `Generate and record a mind-bending puzzle solvable with reasoning
alone. The answer is held back and revealed by the next "answer" call
or the next daily post.`,
	Args: cobra.NoArgs,
	RunE: runPuzzle,
}

func runPuzzle(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.Puzzle(cmd.Context())
	if isSaveFailure(err) {
		return reportSaveFailure(cmd, result, err)
	}
	if err != nil {
		return err
	}
	return outputResult(cmd, result)
}
