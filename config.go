package feynman

import (
	"os"
	"strconv"
	"time"
)

// Config configures the engine.
type Config struct {
	// HistoryPath is the path to the JSON history state file.
	HistoryPath string

	// ArchivePath is the path to the SQLite archive mirror of the post log.
	// Empty disables archiving.
	ArchivePath string

	// Topics is the pool of topics rotated across posts.
	Topics []string

	// WonderTypes is the pool of wonder flavors rotated across posts.
	WonderTypes []string

	// Schedule is the weekly mode table used by the daily trigger.
	Schedule Schedule

	// CallbackChance is the probability of referencing an older post.
	// Defaults to CallbackChance (0.30).
	CallbackChance float64

	// APIKey authenticates with the generation service.
	APIKey string

	// Model is the generation model identifier.
	Model string

	// BaseURL overrides the generation service endpoint (for testing).
	BaseURL string

	// WebhookURL is the chat channel webhook that receives finished posts.
	// Empty disables delivery; posts are still recorded.
	WebhookURL string

	// PostHourUTC is the hour of day the serve loop fires. Defaults to 19.
	PostHourUTC int

	// SkipIfPostedToday makes the daily trigger a no-op when history already
	// holds a post for the same calendar date.
	SkipIfPostedToday bool

	// GenerateTimeout bounds a single generation call. Defaults to 2 minutes.
	GenerateTimeout time.Duration
}

// DefaultTopics is the default topic pool.
func DefaultTopics() []string {
	return []string{
		"quantum mechanics", "number theory", "thermodynamics", "topology",
		"special or general relativity", "probability paradoxes", "chaos theory",
		"electromagnetism", "group theory and symmetry", "fluid dynamics",
		"prime numbers", "cosmology and the early universe", "game theory",
		"optics and light", "combinatorics", "statistical mechanics",
		"black holes", "wave phenomena", "graph theory", "orbital mechanics",
	}
}

// DefaultWonderTypes is the default pool of wonder flavors, after Martin
// Gardner's taxonomy of mathematical surprise.
func DefaultWonderTypes() []string {
	return []string{
		"something that seems impossible but is mathematically proven true",
		"a simple question with a surprisingly complex or unsolved answer",
		"a pattern that appears unexpectedly across unrelated domains",
		"a problem that stumped mathematicians or physicists for decades (or centuries)",
		"something proven to exist but never directly observed",
		"two seemingly unrelated things that turn out to be mathematically equivalent",
		"a result that contradicts everyday intuition about how the world works",
		"a physical phenomenon that has no complete explanation yet",
		"an everyday object or experience that hides deep mathematical structure",
		"a limit or bound that nature seems to respect for mysterious reasons",
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryPath:     "fact_history.json",
		Topics:          DefaultTopics(),
		WonderTypes:     DefaultWonderTypes(),
		Schedule:        DefaultSchedule(),
		CallbackChance:  CallbackChance,
		Model:           "claude-sonnet-4-20250514",
		PostHourUTC:     19,
		GenerateTimeout: 2 * time.Minute,
	}
}

// ConfigFromEnv reads configuration from environment variables.
//
//	FEYNMAN_HISTORY_FILE → HistoryPath
//	FEYNMAN_ARCHIVE_FILE → ArchivePath
//	FEYNMAN_WEBHOOK_URL  → WebhookURL
//	FEYNMAN_MODEL        → Model
//	FEYNMAN_POST_HOUR    → PostHourUTC
//	FEYNMAN_SKIP_DUPES   → SkipIfPostedToday (any non-empty value enables)
//	ANTHROPIC_API_KEY    → APIKey
func ConfigFromEnv() Config {
	cfg := Config{
		HistoryPath:       os.Getenv("FEYNMAN_HISTORY_FILE"),
		ArchivePath:       os.Getenv("FEYNMAN_ARCHIVE_FILE"),
		WebhookURL:        os.Getenv("FEYNMAN_WEBHOOK_URL"),
		Model:             os.Getenv("FEYNMAN_MODEL"),
		APIKey:            os.Getenv("ANTHROPIC_API_KEY"),
		SkipIfPostedToday: os.Getenv("FEYNMAN_SKIP_DUPES") != "",
	}
	if v := os.Getenv("FEYNMAN_POST_HOUR"); v != "" {
		if hour, err := strconv.Atoi(v); err == nil {
			cfg.PostHourUTC = hour
		}
	}
	return cfg
}

// Validate checks the configuration for errors.
// Returns *ValidationError for invalid fields.
func (c *Config) Validate() error {
	if c.HistoryPath == "" {
		return &ValidationError{Field: "HistoryPath", Message: "required: path to history state file"}
	}
	if len(c.Topics) == 0 {
		return &ValidationError{Field: "Topics", Message: "at least one topic required"}
	}
	if len(c.WonderTypes) == 0 {
		return &ValidationError{Field: "WonderTypes", Message: "at least one wonder type required"}
	}
	if c.CallbackChance < 0 || c.CallbackChance > 1 {
		return &ValidationError{Field: "CallbackChance", Message: "must be between 0 and 1"}
	}
	if c.PostHourUTC < 0 || c.PostHourUTC > 23 {
		return &ValidationError{Field: "PostHourUTC", Message: "must be between 0 and 23"}
	}
	for day, mode := range c.Schedule {
		if !mode.IsValid() {
			return &ValidationError{Field: "Schedule", Message: "invalid mode " + string(mode) + " for " + day.String()}
		}
	}
	return nil
}

// WithDefaults fills in default values for unset fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.HistoryPath == "" {
		c.HistoryPath = defaults.HistoryPath
	}
	if len(c.Topics) == 0 {
		c.Topics = defaults.Topics
	}
	if len(c.WonderTypes) == 0 {
		c.WonderTypes = defaults.WonderTypes
	}
	if c.Schedule == nil {
		c.Schedule = defaults.Schedule
	}
	if c.CallbackChance == 0 {
		c.CallbackChance = defaults.CallbackChance
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.PostHourUTC == 0 {
		c.PostHourUTC = defaults.PostHourUTC
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = defaults.GenerateTimeout
	}
	return c
}
