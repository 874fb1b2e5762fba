// Package mcp exposes the content engine's command facade as Model Context
// Protocol tools, so coding agents can trigger posts and inspect history.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with engine tools.
type Server struct {
	engine    *feynman.Engine
	mcpServer *server.MCPServer
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server with engine tools registered.
func NewServer(engine *feynman.Engine) *Server {
	s := &Server{engine: engine}

	s.mcpServer = server.NewMCPServer(
		"feynman",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a raw JSON-RPC message and returns a response.
// This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "wonder_fact", Description: "Generate and record a surprising fact, optionally pinned to a topic"},
		{Name: "wonder_whatif", Description: "Generate and record an absurd hypothetical answered with real physics"},
		{Name: "wonder_puzzle", Description: "Generate and record a puzzle; its answer is held for later reveal"},
		{Name: "wonder_answer", Description: "Reveal the pending puzzle answer"},
		{Name: "wonder_history", Description: "List recent posts, most recent first"},
		{Name: "wonder_schedule", Description: "Show the weekly posting schedule"},
	}
}

// CallTool executes a tool by name with the given arguments.
// This is used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	switch name {
	case "wonder_fact":
		return s.handleFact(ctx, args)
	case "wonder_whatif":
		return s.handleWhatIf(ctx)
	case "wonder_puzzle":
		return s.handlePuzzle(ctx)
	case "wonder_answer":
		return s.handleAnswer()
	case "wonder_history":
		return s.handleHistory(args)
	case "wonder_schedule":
		return s.handleSchedule()
	default:
		return &ToolResult{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}, nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("wonder_fact",
		mcp.WithDescription("Generate and record a genuinely surprising physics or math fact. A pinned topic is used verbatim; otherwise a fresh topic is rotated in."),
		mcp.WithString("topic",
			mcp.Description("Optional topic to pin (bypasses the repetition window)"),
		),
	), s.mcpHandleFact)

	s.mcpServer.AddTool(mcp.NewTool("wonder_whatif",
		mcp.WithDescription("Generate and record an absurd hypothetical question answered with real physics or math."),
	), s.mcpHandleWhatIf)

	s.mcpServer.AddTool(mcp.NewTool("wonder_puzzle",
		mcp.WithDescription("Generate and record a puzzle. The answer is stored as the pending reveal; use wonder_answer to reveal it."),
	), s.mcpHandlePuzzle)

	s.mcpServer.AddTool(mcp.NewTool("wonder_answer",
		mcp.WithDescription("Reveal and clear the pending puzzle answer. Reports when nothing is waiting."),
	), s.mcpHandleAnswer)

	s.mcpServer.AddTool(mcp.NewTool("wonder_history",
		mcp.WithDescription("List recent posts, most recent first."),
		mcp.WithNumber("count",
			mcp.Description("Number of posts to list (default: 5)"),
		),
	), s.mcpHandleHistory)

	s.mcpServer.AddTool(mcp.NewTool("wonder_schedule",
		mcp.WithDescription("Show the weekly posting schedule."),
	), s.mcpHandleSchedule)
}

func (s *Server) handleFact(ctx context.Context, args map[string]any) (*ToolResult, error) {
	topic, _ := args["topic"].(string)
	result, err := s.engine.Fact(ctx, topic)
	if err != nil {
		return errorResult(err), nil
	}
	return postResult(result), nil
}

func (s *Server) handleWhatIf(ctx context.Context) (*ToolResult, error) {
	result, err := s.engine.WhatIf(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return postResult(result), nil
}

func (s *Server) handlePuzzle(ctx context.Context) (*ToolResult, error) {
	result, err := s.engine.Puzzle(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return postResult(result), nil
}

func (s *Server) handleAnswer() (*ToolResult, error) {
	answer, err := s.engine.Answer()
	if errors.Is(err, feynman.ErrNothingToReveal) {
		return &ToolResult{Content: "No pending puzzle answer to reveal."}, nil
	}
	if err != nil && !errors.Is(err, feynman.ErrStateNotSaved) {
		return errorResult(err), nil
	}
	return &ToolResult{Content: "Puzzle answer:\n" + answer}, nil
}

func (s *Server) handleHistory(args map[string]any) (*ToolResult, error) {
	count := 5
	if n, ok := args["count"].(float64); ok && n > 0 {
		count = int(n)
	}
	posts := s.engine.History(count)
	if len(posts) == 0 {
		return &ToolResult{Content: "No posting history yet."}, nil
	}

	var b strings.Builder
	for _, post := range posts {
		topic := post.Topic
		if topic == "" {
			topic = "-"
		}
		fmt.Fprintf(&b, "%s  %-12s %s\n", post.Timestamp.Format("2006-01-02"), post.Mode, topic)
	}
	return &ToolResult{Content: b.String()}, nil
}

func (s *Server) handleSchedule() (*ToolResult, error) {
	table := s.engine.ScheduleTable()
	days := make([]time.Weekday, 0, len(table))
	for day := range table {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "%-9s %s\n", day, table[day])
	}
	return &ToolResult{Content: b.String()}, nil
}

func postResult(result *feynman.Result) *ToolResult {
	var b strings.Builder
	if result.RevealText != "" {
		b.WriteString("Yesterday's puzzle answer:\n")
		b.WriteString(result.RevealText)
		b.WriteString("\n\n---\n\n")
	}
	b.WriteString(result.Post.Content)
	return &ToolResult{Content: b.String()}
}

func errorResult(err error) *ToolResult {
	return &ToolResult{Content: err.Error(), IsError: true}
}

func toMCPResult(result *ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}

// MCP handlers that wrap internal handlers

func (s *Server) mcpHandleFact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleFact(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleWhatIf(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleWhatIf(ctx)
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandlePuzzle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handlePuzzle(ctx)
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleAnswer()
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleHistory(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleSchedule()
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}
