package main

import (
	feynmanmcp "github.com/ericmagro/feynman-bot/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for coding agent integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio.

This exposes the wonder tools (fact, what-if, puzzle, answer, history,
schedule) to MCP clients.

Configuration in Claude Code (~/.claude/claude_desktop_config.json):

  {
    "mcpServers": {
      "feynman": {
        "command": "feynman",
        "args": ["mcp"],
        "env": {
          "FEYNMAN_HISTORY_FILE": "/path/to/fact_history.json",
          "ANTHROPIC_API_KEY": "sk-..."
        }
      }
    }
  }

Environment variables:
  FEYNMAN_HISTORY_FILE  Path to the JSON history state file
  FEYNMAN_ARCHIVE_FILE  Path to the SQLite post archive (optional)
  FEYNMAN_MODEL         Generation model identifier
  ANTHROPIC_API_KEY     API key for content generation (required)`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := feynmanmcp.NewServer(engine)
	return server.Run()
}
