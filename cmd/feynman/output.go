package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/spf13/cobra"
)

// outputResult prints a produced post, preceded by the reveal block when the
// day opened with a puzzle answer.
func outputResult(cmd *cobra.Command, result *feynman.Result) error {
	if outputJSON {
		return outputAsJSON(cmd, result)
	}

	out := cmd.OutOrStdout()

	if result.RevealText != "" {
		printTitle(out, "Yesterday's puzzle answer", "connections")
		fmt.Fprintln(out, renderContent(result.RevealText))
		fmt.Fprintln(out)
	}

	printTitle(out, titleFor(result.Post), string(result.Post.Mode))
	fmt.Fprintln(out, renderContent(result.Post.Content))
	return nil
}

// outputAsJSON writes any value as formatted JSON to the command's stdout.
func outputAsJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTitle(out io.Writer, title, mode string) {
	if isTTY() {
		style := titleStyle.Foreground(modeColor(mode))
		fmt.Fprintln(out, style.Render(title))
	} else {
		fmt.Fprintln(out, title)
	}
}

func titleFor(post feynman.Post) string {
	switch post.Mode {
	case feynman.ModeWhatIf:
		return "What If...?"
	case feynman.ModePuzzle:
		return "Puzzle: " + titleTopic(post.Topic)
	case feynman.ModeConnections:
		return "Weekly Connections"
	default:
		return "Daily Wonder: " + titleTopic(post.Topic)
	}
}

func titleTopic(topic string) string {
	if topic == "" {
		return "Physics & Math"
	}
	words := strings.Fields(topic)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// reportSaveFailure prints the post despite a persistence failure and warns
// that history was not durably updated.
func reportSaveFailure(cmd *cobra.Command, result *feynman.Result, err error) error {
	if result != nil {
		if outErr := outputResult(cmd, result); outErr != nil {
			return outErr
		}
	}
	printWarning(os.Stderr, "content generated but history was not saved: %v", err)
	return nil
}

// isSaveFailure reports whether err is a post-generation persistence
// failure, where content exists but durability was lost.
func isSaveFailure(err error) bool {
	return errors.Is(err, feynman.ErrStateNotSaved)
}
