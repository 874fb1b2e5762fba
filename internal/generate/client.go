// Package generate implements the generation collaborator: prompt assembly
// per content mode and an Anthropic Messages API transport.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 1024
)

// Client calls the Anthropic Messages API to turn a content directive into
// generated text. It implements feynman.Generator.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a generation client.
func NewClient(apiKey, model string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: defaultMaxTokens,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// WithBaseURL overrides the API endpoint (for testing).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithHTTPClient sets a custom http.Client (for testing or custom timeouts).
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// messagesRequest is the Messages API request body.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the subset of the Messages API response we consume.
type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate renders the directive's prompt, calls the model, and parses the
// response. Puzzle responses are split into content and answer.
func (c *Client) Generate(ctx context.Context, directive feynman.Directive) (feynman.Generation, error) {
	if c.apiKey == "" {
		return feynman.Generation{}, &feynman.GenerationError{
			Operation: "generate",
			Err:       fmt.Errorf("api key not configured"),
		}
	}

	text, err := c.complete(ctx, BuildPrompt(directive))
	if err != nil {
		return feynman.Generation{}, err
	}

	if directive.Mode == feynman.ModePuzzle {
		puzzle, answer := splitAnswer(text)
		return feynman.Generation{Content: puzzle, Answer: answer}, nil
	}
	return feynman.Generation{Content: text}, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &feynman.GenerationError{Operation: "generate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", &feynman.GenerationError{Operation: "generate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &feynman.GenerationError{Operation: "generate", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &feynman.GenerationError{Operation: "generate", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		return "", &feynman.GenerationError{
			Operation:  "generate",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg),
		}
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &feynman.GenerationError{Operation: "generate", StatusCode: resp.StatusCode, Err: err}
	}
	if parsed.Error != nil {
		return "", &feynman.GenerationError{
			Operation: "generate",
			Err:       fmt.Errorf("API error %s: %s", parsed.Error.Type, parsed.Error.Message),
		}
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" || block.Type == "" {
			text.WriteString(block.Text)
		}
	}
	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", &feynman.GenerationError{
			Operation: "generate",
			Err:       fmt.Errorf("empty completion"),
		}
	}
	return result, nil
}
