package main

import (
	"github.com/spf13/cobra"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Generate a what-if thought experiment",
	Long: `Generate and record a playful thought experiment that takes an
absurd premise seriously. A fresh scenario topic is rotated in
automatically.`,
	Args: cobra.NoArgs,
	RunE: runWhatIf,
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.WhatIf(cmd.Context())
	if isSaveFailure(err) {
		return reportSaveFailure(cmd, result, err)
	}
	if err != nil {
		return err
	}
	return outputResult(cmd, result)
}
