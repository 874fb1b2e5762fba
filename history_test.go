package feynman

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testPost(id string, ts time.Time, mode Mode, topic string) Post {
	return Post{
		ID:        id,
		Timestamp: ts,
		Mode:      mode,
		Topic:     topic,
		Summary:   "summary of " + id,
		Content:   "content of " + id,
	}
}

// TestStore_LoadMissingFile verifies a missing state file yields a fresh
// empty history.
func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "no-such-file.json"))

	state := store.Load()
	if len(state.Posts) != 0 {
		t.Errorf("fresh state has %d posts, want 0", len(state.Posts))
	}
	if state.PendingAnswer != "" {
		t.Errorf("fresh state PendingAnswer = %q, want empty", state.PendingAnswer)
	}
	if state.UsedTopics.Cap() != TopicWindowSize {
		t.Errorf("topic window capacity = %d, want %d", state.UsedTopics.Cap(), TopicWindowSize)
	}
}

// TestStore_LoadCorruptFile verifies unparsable JSON is treated like a
// missing file rather than an error.
func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	state := NewStore(path).Load()
	if len(state.Posts) != 0 {
		t.Errorf("corrupt load produced %d posts, want fresh empty state", len(state.Posts))
	}
}

// TestStore_LoadSkipsInvalidPosts verifies entries without a valid mode or
// timestamp are dropped instead of poisoning the state.
func TestStore_LoadSkipsInvalidPosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	raw := `{
		"posts": [
			{"id": "ok", "timestamp": "2025-06-01T19:00:00Z", "mode": "fact", "topic": "topology"},
			{"id": "bad-mode", "timestamp": "2025-06-02T19:00:00Z", "mode": "haiku"},
			{"id": "no-time", "mode": "fact"}
		],
		"used_wonders": [],
		"used_topics": ["topology"],
		"pending_puzzle_answer": null
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("writing state file: %v", err)
	}

	state := NewStore(path).Load()
	if len(state.Posts) != 1 {
		t.Fatalf("loaded %d posts, want 1 valid post", len(state.Posts))
	}
	if state.Posts[0].ID != "ok" {
		t.Errorf("surviving post ID = %q, want %q", state.Posts[0].ID, "ok")
	}
}

// TestStore_SaveLoadRoundTrip verifies load(save(state)) preserves the
// whole state including windows and the pending answer.
func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"))

	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	state := NewHistoryState()
	state = Append(state, testPost("p1", ts, ModeFact, "topology"))
	state = Append(state, testPost("p2", ts.AddDate(0, 0, 1), ModeWhatIf, "black holes"))
	state.PendingAnswer = "forty-two"

	if err := store.Save(state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := store.Load()
	if len(loaded.Posts) != 2 {
		t.Fatalf("loaded %d posts, want 2", len(loaded.Posts))
	}
	if !reflect.DeepEqual(loaded.Posts, state.Posts) {
		t.Errorf("posts changed across round trip:\n got %+v\nwant %+v", loaded.Posts, state.Posts)
	}
	if got := loaded.UsedTopics.Excludes(); !reflect.DeepEqual(got, []string{"topology", "black holes"}) {
		t.Errorf("topic window = %v after round trip", got)
	}
	if loaded.PendingAnswer != "forty-two" {
		t.Errorf("PendingAnswer = %q, want %q", loaded.PendingAnswer, "forty-two")
	}
}

// TestStore_SaveOmitsEmptyPendingAnswer verifies the persisted field is
// null, not an empty string, when nothing is pending.
func TestStore_SaveOmitsEmptyPendingAnswer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := NewStore(path).Save(NewHistoryState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	var file struct {
		PendingAnswer *string `json:"pending_puzzle_answer"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("parsing state file: %v", err)
	}
	if file.PendingAnswer != nil {
		t.Errorf("pending_puzzle_answer = %q, want null", *file.PendingAnswer)
	}
}

// TestStore_SaveLeavesNoTempFiles verifies the atomic write cleans up its
// intermediate file.
func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "history.json"))
	if err := store.Save(NewHistoryState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "history.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contains %v, want only history.json", names)
	}
}

// TestStore_SaveCreatesParentDirs verifies saving into a missing directory
// works.
func TestStore_SaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "history.json")
	if err := NewStore(path).Save(NewHistoryState()); err != nil {
		t.Fatalf("Save into missing directory failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file not created: %v", err)
	}
}

// TestAppend_PushesWindows verifies appending a post rotates its topic and
// wonder type into the repetition windows.
func TestAppend_PushesWindows(t *testing.T) {
	state := NewHistoryState()
	post := testPost("p1", time.Now().UTC(), ModeFact, "topology")
	post.WonderType = "a pattern that appears unexpectedly across unrelated domains"

	state = Append(state, post)
	if !state.UsedTopics.Contains("topology") {
		t.Error("topic not pushed into window")
	}
	if !state.UsedWonders.Contains(post.WonderType) {
		t.Error("wonder type not pushed into window")
	}

	// Topic-less posts (puzzles) must not push empty tokens.
	puzzle := testPost("p2", time.Now().UTC(), ModePuzzle, "")
	state = Append(state, puzzle)
	if state.UsedTopics.Contains("") {
		t.Error("empty topic pushed into window")
	}
}

// TestRecent_MostRecentFirstAndClamped exercises ordering and clamping.
func TestRecent_MostRecentFirstAndClamped(t *testing.T) {
	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	state := NewHistoryState()
	for i := 0; i < 5; i++ {
		state = Append(state, testPost(string(rune('a'+i)), ts.AddDate(0, 0, i), ModeFact, "t"))
	}

	got := Recent(state, 3)
	if len(got) != 3 {
		t.Fatalf("Recent(3) returned %d posts", len(got))
	}
	if got[0].ID != "e" || got[2].ID != "c" {
		t.Errorf("Recent order = [%s %s %s], want most recent first", got[0].ID, got[1].ID, got[2].ID)
	}

	if got := Recent(state, 100); len(got) != 5 {
		t.Errorf("Recent(100) returned %d posts, want all 5", len(got))
	}
	if got := Recent(state, -1); len(got) != 0 {
		t.Errorf("Recent(-1) returned %d posts, want 0", len(got))
	}
}

// TestPostedOn matches by UTC calendar date, not a 24-hour span.
func TestPostedOn(t *testing.T) {
	state := NewHistoryState()
	state = Append(state, testPost("p1", time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC), ModeFact, "t"))

	if !PostedOn(state, time.Date(2025, 6, 1, 0, 5, 0, 0, time.UTC)) {
		t.Error("PostedOn = false for the same calendar date")
	}
	if PostedOn(state, time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC)) {
		t.Error("PostedOn = true for the next calendar date")
	}
}
