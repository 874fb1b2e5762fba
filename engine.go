package feynman

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator is the external generation collaborator. For puzzle directives
// it must return a distinguishable answer alongside the content.
type Generator interface {
	Generate(ctx context.Context, directive Directive) (Generation, error)
}

// Archiver mirrors the append-only post log into secondary storage. Archive
// failures never fail a post; the JSON state file is the system of record.
type Archiver interface {
	RecordPost(post Post) error
}

// Engine is the history-driven content selection engine. All mutations of
// HistoryState are serialized behind a single lock held across the full
// select+generate+persist sequence, so two concurrent requests can never
// read the same un-updated repetition window or race on the pending answer.
type Engine struct {
	store   *Store
	gen     Generator
	archive Archiver
	cfg     Config
	picker  *Picker
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex // exclusive writer lock

	stateMu sync.RWMutex
	state   HistoryState // last committed state; reads tolerate staleness
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRand injects a seedable random source for deterministic selection.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.picker = NewPicker(rng, e.cfg.CallbackChance) }
}

// WithClock injects the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithArchiver attaches an archive mirror for the post log.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archive = a }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over the given generator. The history state is
// loaded once here; a missing or corrupt state file yields a fresh history.
func NewEngine(cfg Config, gen Generator, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, errors.New("engine: generator is required")
	}

	e := &Engine{
		store:  NewStore(cfg.HistoryPath),
		gen:    gen,
		cfg:    cfg,
		picker: NewPicker(nil, cfg.CallbackChance),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.store.Load()
	return e, nil
}

// request describes one content-producing invocation.
type request struct {
	mode        Mode
	pinnedTopic string
	daily       bool      // daily trigger: reveal pending answer, honor the gate
	date        time.Time // daily trigger date
}

// Daily runs the scheduled trigger for the given date: reveal a pending
// puzzle answer if one exists, look up the day's mode, produce the post,
// and fold it back into history.
func (e *Engine) Daily(ctx context.Context, date time.Time) (*Result, error) {
	return e.produce(ctx, request{
		mode:  e.cfg.Schedule.ModeFor(date),
		daily: true,
		date:  date,
	})
}

// Fact produces an on-demand fact. A non-empty topic is used verbatim and
// bypasses the repetition window.
func (e *Engine) Fact(ctx context.Context, topic string) (*Result, error) {
	return e.produce(ctx, request{mode: ModeFact, pinnedTopic: topic})
}

// WhatIf produces an on-demand hypothetical.
func (e *Engine) WhatIf(ctx context.Context) (*Result, error) {
	return e.produce(ctx, request{mode: ModeWhatIf})
}

// Puzzle produces an on-demand puzzle. Its answer becomes the pending
// answer, overwriting any prior unresolved one (latest write wins).
func (e *Engine) Puzzle(ctx context.Context) (*Result, error) {
	return e.produce(ctx, request{mode: ModePuzzle})
}

// Answer reveals the pending puzzle answer and clears it. With nothing
// pending it returns ErrNothingToReveal, which is a condition rather than
// a fault.
func (e *Engine) Answer() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.snapshot()
	if state.PendingAnswer == "" {
		return "", ErrNothingToReveal
	}
	answer := state.PendingAnswer
	state.PendingAnswer = ""

	if err := e.commit(state, nil); err != nil {
		return answer, fmt.Errorf("%w: %w", ErrStateNotSaved, err)
	}
	return answer, nil
}

// History returns the last n posts, most recent first. Read-only: runs
// against the last committed state without the writer lock.
func (e *Engine) History(n int) []Post {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return Recent(e.state, n)
}

// PendingAnswer reports whether a puzzle answer is waiting to be revealed.
func (e *Engine) PendingAnswer() bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state.PendingAnswer != ""
}

// ScheduleTable returns the weekly mode table.
func (e *Engine) ScheduleTable() Schedule {
	table := make(Schedule, len(e.cfg.Schedule))
	for day, mode := range e.cfg.Schedule {
		table[day] = mode
	}
	return table
}

// produce runs the full selection+generation+persist sequence under the
// exclusive lock. The lock stays held across the generation call:
// correctness over throughput, since posts happen a few times a day.
func (e *Engine) produce(ctx context.Context, req request) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UTC()
	state := e.snapshot()

	if req.daily && e.cfg.SkipIfPostedToday && PostedOn(state, req.date) {
		return nil, ErrAlreadyPostedToday
	}

	var reveal string
	if req.daily {
		reveal = state.PendingAnswer
	}

	directive, err := e.buildDirective(state, req, now)
	if err != nil {
		return nil, err
	}

	genCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && e.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.cfg.GenerateTimeout)
		defer cancel()
	}

	// Suspension point. Nothing has been mutated yet: a generation failure
	// leaves history byte-for-byte unchanged.
	gen, err := e.gen.Generate(genCtx, directive)
	if err != nil {
		return nil, err
	}
	if gen.Content == "" {
		return nil, ErrEmptyContent
	}

	post := Post{
		ID:         ulid.Make().String(),
		Timestamp:  now,
		Mode:       directive.Mode,
		Topic:      directive.Topic,
		WonderType: directive.WonderType,
		Summary:    Summarize(gen.Content),
		Content:    gen.Content,
	}

	state = Append(state, post)
	if reveal != "" {
		state.PendingAnswer = ""
	}
	if directive.Mode == ModePuzzle {
		state.PendingAnswer = gen.Answer
	}

	result := &Result{Post: post, RevealText: reveal}

	if err := e.commit(state, &post); err != nil {
		// Content was generated and is returned; only durability is lost.
		return result, fmt.Errorf("%w: %w", ErrStateNotSaved, err)
	}

	e.logger.Info("posted",
		"mode", post.Mode,
		"topic", post.Topic,
		"callback", directive.Callback != nil,
		"revealed", reveal != "")
	return result, nil
}

// buildDirective runs the selection policy for the requested mode.
func (e *Engine) buildDirective(state HistoryState, req request, now time.Time) (Directive, error) {
	mode := req.mode

	// A synthesis needs a week to synthesize. With too little history,
	// produce a regular fact instead.
	if mode == ModeConnections && len(PostsSince(state, now, ConnectionsRecentPosts)) < ConnectionsMinPosts {
		mode = ModeFact
	}

	directive := Directive{
		Mode:          mode,
		RecentContext: contextBlock(state, now),
	}

	switch mode {
	case ModeFact:
		topic := req.pinnedTopic
		if topic == "" {
			var err error
			topic, err = e.picker.PickTopic(e.cfg.Topics, state.UsedTopics)
			if err != nil {
				return Directive{}, err
			}
		}
		wonder, err := e.picker.PickWonder(e.cfg.WonderTypes, state.UsedWonders)
		if err != nil {
			return Directive{}, err
		}
		directive.Topic = topic
		directive.WonderType = wonder
		if callback := e.picker.Callback(state, now); callback != nil {
			directive.Callback = callback
			directive.CallbackAgeDays = callback.AgeDays(now)
		}

	case ModeWhatIf:
		topic := req.pinnedTopic
		if topic == "" {
			var err error
			topic, err = e.picker.PickTopic(e.cfg.Topics, state.UsedTopics)
			if err != nil {
				return Directive{}, err
			}
		}
		directive.Topic = topic

	case ModePuzzle:
		// Structurally fixed: the directive requests a fresh puzzle with no
		// topic or wonder-type rotation.

	case ModeConnections:
		for _, post := range Recent(state, ConnectionsRecentPosts) {
			line := fmt.Sprintf("(%s) %s: %s", post.Mode, orUnknown(post.Topic), post.Summary)
			directive.WeekSummaries = append(directive.WeekSummaries, line)
		}
	}

	return directive, nil
}

// contextBlock renders the recent-posts lines shared with the generator so
// it can avoid echoing earlier content.
func contextBlock(state HistoryState, now time.Time) []string {
	recent := PostsSince(state, now, ContextLookbackDays)
	if len(recent) > ContextMaxPosts {
		recent = recent[len(recent)-ContextMaxPosts:]
	}
	lines := make([]string, 0, len(recent))
	for _, post := range recent {
		lines = append(lines, fmt.Sprintf("[%s] (%s) %s: %s",
			post.Timestamp.Format("2006-01-02"), post.Mode, orUnknown(post.Topic), post.Summary))
	}
	return lines
}

func orUnknown(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}

// snapshot deep-copies the committed state so in-flight selection can never
// alias the slices readers see.
func (e *Engine) snapshot() HistoryState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()

	state := HistoryState{
		Posts:         append([]Post(nil), e.state.Posts...),
		UsedTopics:    windowOf(e.state.UsedTopics.Excludes(), TopicWindowSize),
		UsedWonders:   windowOf(e.state.UsedWonders.Excludes(), WonderWindowSize),
		PendingAnswer: e.state.PendingAnswer,
	}
	return state
}

// commit persists the state and, on success or failure alike, publishes it
// as the new in-memory snapshot. newPost, when set, is mirrored to the
// archive best-effort.
func (e *Engine) commit(state HistoryState, newPost *Post) error {
	err := e.store.Save(state)

	e.stateMu.Lock()
	e.state = state
	e.stateMu.Unlock()

	if e.archive != nil && newPost != nil {
		if aerr := e.archive.RecordPost(*newPost); aerr != nil {
			e.logger.Warn("archive mirror failed", "post", newPost.ID, "error", aerr)
		}
	}
	return err
}
