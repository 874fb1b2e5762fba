// Package notify delivers finished content to the chat channel through a
// webhook. Delivery is fire-and-forget from the engine's point of view:
// history is the system of record, so a failed delivery is logged, not
// rolled back.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxMessageLen is the channel's hard limit on a single message body.
const maxMessageLen = 2000

// Webhook posts messages to a Discord-compatible webhook URL.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook poster.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient sets a custom http.Client (for testing).
func (w *Webhook) WithHTTPClient(client *http.Client) *Webhook {
	w.httpClient = client
	return w
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Post sends content to the channel, chunking on paragraph boundaries when
// it exceeds the message limit.
func (w *Webhook) Post(ctx context.Context, content string) error {
	if w.url == "" {
		return fmt.Errorf("notify: webhook URL not configured")
	}
	for _, chunk := range chunkMessage(content, maxMessageLen) {
		if err := w.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (w *Webhook) send(ctx context.Context, content string) error {
	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		msg := string(respBody)
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		return fmt.Errorf("notify: webhook returned HTTP %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// chunkMessage splits content into pieces of at most limit runes, preferring
// paragraph breaks, then line breaks, then a hard cut.
func chunkMessage(content string, limit int) []string {
	runes := []rune(content)
	if len(runes) <= limit {
		return []string{content}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		window := string(runes[:limit])
		if idx := strings.LastIndex(window, "\n\n"); idx > 0 {
			cut = len([]rune(window[:idx]))
		} else if idx := strings.LastIndex(window, "\n"); idx > 0 {
			cut = len([]rune(window[:idx]))
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
