package feynman

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HistoryState is the aggregate root of everything the engine remembers:
// the append-only post log, the two repetition windows, and the pending
// puzzle answer. All mutation goes through Store operations.
type HistoryState struct {
	Posts         []Post
	UsedTopics    Window
	UsedWonders   Window
	PendingAnswer string
}

// historyFile is the persisted shape of HistoryState. Windows are stored
// most-recent-last; the pending answer is null when absent.
type historyFile struct {
	Posts         []Post   `json:"posts"`
	UsedWonders   []string `json:"used_wonders"`
	UsedTopics    []string `json:"used_topics"`
	PendingAnswer *string  `json:"pending_puzzle_answer"`
}

// NewHistoryState returns a fresh empty state.
func NewHistoryState() HistoryState {
	return HistoryState{
		Posts:       []Post{},
		UsedTopics:  NewWindow(TopicWindowSize),
		UsedWonders: NewWindow(WonderWindowSize),
	}
}

// Store reads and writes HistoryState to a JSON state file.
type Store struct {
	path string
}

// NewStore creates a store over the given state file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted state. A missing, corrupt, or unparsable file is
// a recoverable condition: Load returns a fresh empty state and never fails
// the caller.
func (s *Store) Load() HistoryState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NewHistoryState()
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return NewHistoryState()
	}

	state := NewHistoryState()
	for _, post := range file.Posts {
		if !post.Mode.IsValid() || post.Timestamp.IsZero() {
			continue
		}
		state.Posts = append(state.Posts, post)
	}
	state.UsedTopics = windowOf(file.UsedTopics, TopicWindowSize)
	state.UsedWonders = windowOf(file.UsedWonders, WonderWindowSize)
	if file.PendingAnswer != nil {
		state.PendingAnswer = *file.PendingAnswer
	}
	return state
}

// Save persists the full state atomically: write to a temp file in the same
// directory, then rename over the target, so a crash mid-write cannot leave
// a half-written file. Losing history is a correctness issue, so failures
// are surfaced to the caller.
func (s *Store) Save(state HistoryState) error {
	file := historyFile{
		Posts:       state.Posts,
		UsedWonders: state.UsedWonders.Excludes(),
		UsedTopics:  state.UsedTopics.Excludes(),
	}
	if file.Posts == nil {
		file.Posts = []Post{}
	}
	if state.PendingAnswer != "" {
		file.PendingAnswer = &state.PendingAnswer
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("history: encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("history: create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("history: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("history: write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("history: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("history: replace state file: %w", err)
	}
	return nil
}

// Append adds post to the end of the log and pushes its topic and wonder
// type into the repetition windows. Pure with respect to disk: the caller
// decides when to Save.
func Append(state HistoryState, post Post) HistoryState {
	state.Posts = append(state.Posts, post)
	if post.Topic != "" {
		state.UsedTopics.Push(post.Topic)
	}
	if post.WonderType != "" {
		state.UsedWonders.Push(post.WonderType)
	}
	return state
}

// Recent returns the last n posts, most recent first. n is clamped to
// [0, len(posts)].
func Recent(state HistoryState, n int) []Post {
	if n < 0 {
		n = 0
	}
	if n > len(state.Posts) {
		n = len(state.Posts)
	}
	out := make([]Post, 0, n)
	for i := len(state.Posts) - 1; i >= len(state.Posts)-n; i-- {
		out = append(out, state.Posts[i])
	}
	return out
}

// PostsSince returns posts whose age relative to now is at most the given
// number of days, in chronological order.
func PostsSince(state HistoryState, now time.Time, days int) []Post {
	var out []Post
	for _, post := range state.Posts {
		if post.AgeDays(now) <= days {
			out = append(out, post)
		}
	}
	return out
}

// CallbackCandidates returns posts whose age falls inside the callback
// window, in chronological order.
func CallbackCandidates(state HistoryState, now time.Time) []Post {
	var out []Post
	for _, post := range state.Posts {
		age := post.AgeDays(now)
		if age >= CallbackMinAgeDays && age <= CallbackMaxAgeDays {
			out = append(out, post)
		}
	}
	return out
}

// PostedOn reports whether history holds a post for the same calendar date
// as the given time (UTC).
func PostedOn(state HistoryState, date time.Time) bool {
	y, m, d := date.UTC().Date()
	for i := len(state.Posts) - 1; i >= 0; i-- {
		py, pm, pd := state.Posts[i].Timestamp.UTC().Date()
		if py == y && pm == m && pd == d {
			return true
		}
	}
	return false
}
