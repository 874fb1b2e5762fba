package feynman

import "time"

// Mode determines the shape of a day's content.
type Mode string

const (
	ModeFact        Mode = "fact"
	ModeWhatIf      Mode = "what_if"
	ModePuzzle      Mode = "puzzle"
	ModeConnections Mode = "connections"
)

// ValidModes returns all content modes.
func ValidModes() []Mode {
	return []Mode{ModeFact, ModeWhatIf, ModePuzzle, ModeConnections}
}

// IsValid checks if the mode is a known content mode.
func (m Mode) IsValid() bool {
	for _, valid := range ValidModes() {
		if m == valid {
			return true
		}
	}
	return false
}

// Post is a single published item. Posts are append-only: once written to
// history they are never mutated or deleted.
type Post struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Mode       Mode      `json:"mode"`
	Topic      string    `json:"topic,omitempty"`
	WonderType string    `json:"wonder_type,omitempty"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
}

// AgeDays returns the post's age in whole days relative to now.
func (p Post) AgeDays(now time.Time) int {
	return int(now.Sub(p.Timestamp).Hours() / 24)
}

// Directive is the request handed to the generation collaborator. It carries
// everything the selection policy decided for this post.
type Directive struct {
	Mode            Mode     `json:"mode"`
	Topic           string   `json:"topic,omitempty"`
	WonderType      string   `json:"wonder_type,omitempty"`
	Callback        *Post    `json:"callback,omitempty"`
	CallbackAgeDays int      `json:"callback_age_days,omitempty"`
	WeekSummaries   []string `json:"week_summaries,omitempty"`
	RecentContext   []string `json:"recent_context,omitempty"`
}

// Generation is a successful result from the generation collaborator.
// Answer is set only for puzzle mode.
type Generation struct {
	Content string `json:"content"`
	Answer  string `json:"answer,omitempty"`
}

// Result is a completed content-producing operation: the new post plus the
// answer reveal that preceded it, if one was due.
type Result struct {
	Post       Post   `json:"post"`
	RevealText string `json:"reveal_text,omitempty"`
}

// Capacity and policy constants.
const (
	// TopicWindowSize is how many recently used topics are excluded from
	// selection before a topic may recur.
	TopicWindowSize = 8

	// WonderWindowSize is the recency window for wonder types.
	WonderWindowSize = 5

	// SummaryMaxLen is the fixed prefix length stored as a post summary.
	SummaryMaxLen = 300

	// CallbackChance is the probability of weaving a callback to an older
	// post into a new one.
	CallbackChance = 0.30

	// CallbackMinAgeDays and CallbackMaxAgeDays bound the age of posts
	// eligible as callback targets.
	CallbackMinAgeDays = 7
	CallbackMaxAgeDays = 14

	// ConnectionsRecentPosts is how many recent posts the weekly synthesis
	// reads, roughly the past week at one post per day.
	ConnectionsRecentPosts = 7

	// ConnectionsMinPosts is the minimum week size for a synthesis; below
	// it the engine falls back to a regular fact.
	ConnectionsMinPosts = 3

	// ContextLookbackDays and ContextMaxPosts bound the recent-posts block
	// shared with the generator so it can avoid repeating itself.
	ContextLookbackDays = 14
	ContextMaxPosts     = 10
)

// Summarize truncates content to the fixed summary length.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryMaxLen {
		return content
	}
	return string(runes[:SummaryMaxLen])
}

// Stats summarizes the archived post log.
type Stats struct {
	TotalPosts  int          `json:"total_posts"`
	ByMode      map[Mode]int `json:"by_mode"`
	FirstPosted time.Time    `json:"first_posted"`
	LastPosted  time.Time    `json:"last_posted"`
	TopTopics   []TopicCount `json:"top_topics,omitempty"`
}

// TopicCount pairs a topic with how often it has been posted.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
