package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette: one accent per mode, echoing the channel embed colors.
var (
	colorFact        = lipgloss.Color("#5865F2")
	colorWhatIf      = lipgloss.Color("#EB459E")
	colorPuzzle      = lipgloss.Color("#FEE75C")
	colorConnections = lipgloss.Color("#57F287")
	colorError       = lipgloss.Color("#EF4444")
	colorWarning     = lipgloss.Color("#F59E0B")
	colorMuted       = lipgloss.Color("240")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func modeColor(mode string) lipgloss.Color {
	switch mode {
	case "what_if":
		return colorWhatIf
	case "puzzle":
		return colorPuzzle
	case "connections":
		return colorConnections
	default:
		return colorFact
	}
}

// isTTY returns true if stdout is a terminal.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printError(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTTY() {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), msg)
	} else {
		fmt.Fprintf(w, "✗ %s\n", msg)
	}
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTTY() {
		fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), msg)
	} else {
		fmt.Fprintf(w, "⚠ %s\n", msg)
	}
}

func printMuted(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if isTTY() {
		fmt.Fprintln(w, mutedStyle.Render(msg))
	} else {
		fmt.Fprintln(w, msg)
	}
}

// renderContent renders post content for the terminal, through glamour when
// stdout is a TTY and the content carries markdown.
func renderContent(content string) string {
	if !isTTY() || !hasMarkdown(content) {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func hasMarkdown(content string) bool {
	markers := []string{"```", "## ", "# ", "**", "- ", "---"}
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
