package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestWebhook_PostSendsContent round-trips a short message.
func TestWebhook_PostSendsContent(t *testing.T) {
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		received = append(received, payload.Content)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL)
	if err := hook.Post(context.Background(), "a short post"); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if len(received) != 1 || received[0] != "a short post" {
		t.Errorf("received = %v", received)
	}
}

// TestWebhook_PostChunksLongContent verifies oversized messages are split
// and every chunk fits the limit.
func TestWebhook_PostChunksLongContent(t *testing.T) {
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload webhookPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received = append(received, payload.Content)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	paragraph := strings.Repeat("wonder ", 100) // ~700 chars
	content := paragraph + "\n\n" + paragraph + "\n\n" + paragraph + "\n\n" + paragraph

	hook := NewWebhook(server.URL)
	if err := hook.Post(context.Background(), content); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if len(received) < 2 {
		t.Fatalf("long content arrived in %d chunks, want at least 2", len(received))
	}
	for i, chunk := range received {
		if len([]rune(chunk)) > maxMessageLen {
			t.Errorf("chunk %d has %d runes, limit is %d", i, len([]rune(chunk)), maxMessageLen)
		}
	}
}

// TestWebhook_PostErrorStatus surfaces non-2xx responses.
func TestWebhook_PostErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL)
	if err := hook.Post(context.Background(), "content"); err == nil {
		t.Error("Post succeeded despite 429 response")
	}
}

// TestWebhook_EmptyURL fails fast.
func TestWebhook_EmptyURL(t *testing.T) {
	hook := NewWebhook("")
	if err := hook.Post(context.Background(), "content"); err == nil {
		t.Error("Post succeeded with no URL configured")
	}
}

// TestChunkMessage_PrefersParagraphBreaks verifies splits land on blank
// lines when one exists inside the window.
func TestChunkMessage_PrefersParagraphBreaks(t *testing.T) {
	content := "first paragraph\n\nsecond paragraph"
	chunks := chunkMessage(content, 20)

	if len(chunks) != 2 {
		t.Fatalf("chunkMessage split into %d pieces, want 2: %q", len(chunks), chunks)
	}
	if chunks[0] != "first paragraph" {
		t.Errorf("first chunk = %q", chunks[0])
	}
	if chunks[1] != "second paragraph" {
		t.Errorf("second chunk = %q", chunks[1])
	}
}

// TestChunkMessage_ShortContentUntouched returns a single chunk.
func TestChunkMessage_ShortContentUntouched(t *testing.T) {
	chunks := chunkMessage("short", 2000)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("chunkMessage = %v, want the content unchanged", chunks)
	}
}
