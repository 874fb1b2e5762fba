package archive

import (
	"path/filepath"
	"testing"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func archivedPost(id string, ts time.Time, mode feynman.Mode, topic string) feynman.Post {
	return feynman.Post{
		ID:        id,
		Timestamp: ts,
		Mode:      mode,
		Topic:     topic,
		Summary:   "summary " + id,
		Content:   "content " + id,
	}
}

// TestArchive_RecordPostIdempotent verifies re-recording a post does not
// duplicate it.
func TestArchive_RecordPostIdempotent(t *testing.T) {
	a := openTestArchive(t)
	post := archivedPost("p1", time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC), feynman.ModeFact, "topology")

	if err := a.RecordPost(post); err != nil {
		t.Fatalf("RecordPost failed: %v", err)
	}
	if err := a.RecordPost(post); err != nil {
		t.Fatalf("second RecordPost failed: %v", err)
	}

	stats, err := a.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1 after duplicate record", stats.TotalPosts)
	}
}

// TestArchive_BackfillCountsOnlyNewPosts rebuilds from a post slice and
// reports how many were actually inserted.
func TestArchive_BackfillCountsOnlyNewPosts(t *testing.T) {
	a := openTestArchive(t)
	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	existing := archivedPost("p1", ts, feynman.ModeFact, "topology")
	if err := a.RecordPost(existing); err != nil {
		t.Fatalf("RecordPost failed: %v", err)
	}

	added, err := a.Backfill([]feynman.Post{
		existing,
		archivedPost("p2", ts.AddDate(0, 0, 1), feynman.ModeWhatIf, "black holes"),
		archivedPost("p3", ts.AddDate(0, 0, 2), feynman.ModePuzzle, ""),
	})
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if added != 2 {
		t.Errorf("Backfill added %d posts, want 2", added)
	}
}

// TestArchive_Stats aggregates totals, mode counts, span, and top topics.
func TestArchive_Stats(t *testing.T) {
	a := openTestArchive(t)
	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	posts := []feynman.Post{
		archivedPost("p1", ts, feynman.ModeFact, "topology"),
		archivedPost("p2", ts.AddDate(0, 0, 1), feynman.ModeFact, "topology"),
		archivedPost("p3", ts.AddDate(0, 0, 2), feynman.ModeWhatIf, "black holes"),
		archivedPost("p4", ts.AddDate(0, 0, 3), feynman.ModePuzzle, ""),
	}
	if _, err := a.Backfill(posts); err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}

	stats, err := a.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalPosts != 4 {
		t.Errorf("TotalPosts = %d, want 4", stats.TotalPosts)
	}
	if stats.ByMode[feynman.ModeFact] != 2 {
		t.Errorf("fact count = %d, want 2", stats.ByMode[feynman.ModeFact])
	}
	if !stats.FirstPosted.Equal(ts) {
		t.Errorf("FirstPosted = %v, want %v", stats.FirstPosted, ts)
	}
	if !stats.LastPosted.Equal(ts.AddDate(0, 0, 3)) {
		t.Errorf("LastPosted = %v", stats.LastPosted)
	}
	if len(stats.TopTopics) == 0 || stats.TopTopics[0].Topic != "topology" {
		t.Errorf("TopTopics = %+v, want topology first", stats.TopTopics)
	}
}

// TestArchive_ByMode filters and orders most recent first, preserving the
// null topic of puzzles.
func TestArchive_ByMode(t *testing.T) {
	a := openTestArchive(t)
	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	if _, err := a.Backfill([]feynman.Post{
		archivedPost("f1", ts, feynman.ModeFact, "topology"),
		archivedPost("z1", ts.AddDate(0, 0, 1), feynman.ModePuzzle, ""),
		archivedPost("f2", ts.AddDate(0, 0, 2), feynman.ModeFact, "black holes"),
	}); err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}

	facts, err := a.ByMode(feynman.ModeFact, 10)
	if err != nil {
		t.Fatalf("ByMode failed: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("ByMode(fact) returned %d posts, want 2", len(facts))
	}
	if facts[0].ID != "f2" {
		t.Errorf("first post = %q, want most recent fact", facts[0].ID)
	}

	puzzles, err := a.ByMode(feynman.ModePuzzle, 10)
	if err != nil {
		t.Fatalf("ByMode failed: %v", err)
	}
	if len(puzzles) != 1 || puzzles[0].Topic != "" {
		t.Errorf("puzzle round trip = %+v, want empty topic", puzzles)
	}
}

// TestArchive_ClosedOperationsFail verifies use after Close errors instead
// of panicking.
func TestArchive_ClosedOperationsFail(t *testing.T) {
	a := openTestArchive(t)
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	if err := a.RecordPost(archivedPost("p", time.Now(), feynman.ModeFact, "t")); err == nil {
		t.Error("RecordPost on closed archive succeeded")
	}
	if _, err := a.Stats(); err == nil {
		t.Error("Stats on closed archive succeeded")
	}
}
