package main

import (
	"errors"
	"fmt"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Reveal the pending puzzle answer",
	Long: `Reveal and clear the answer to the most recent unanswered puzzle.
Each answer is revealed at most once.`,
	Args: cobra.NoArgs,
	RunE: runAnswer,
}

func runAnswer(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := engine.Answer()
	if errors.Is(err, feynman.ErrNothingToReveal) {
		printMuted(cmd.OutOrStdout(), "No puzzle is waiting for an answer.")
		return nil
	}
	if err != nil && errors.Is(err, feynman.ErrStateNotSaved) {
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		printWarning(cmd.ErrOrStderr(), "answer revealed but history was not saved: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
