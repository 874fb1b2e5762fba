package feynman

import (
	"math/rand"
	"time"
)

// Picker makes the per-post selection decisions: topic, wonder type, and
// callback. Randomness comes from an injected source so tests can force
// outcomes.
type Picker struct {
	rng            *rand.Rand
	callbackChance float64
}

// NewPicker creates a picker with the given random source. A nil source
// falls back to a time-seeded one.
func NewPicker(rng *rand.Rand, callbackChance float64) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Picker{rng: rng, callbackChance: callbackChance}
}

// PickTopic chooses a topic absent from the window. When every configured
// topic is windowed, the constraint is relaxed to the oldest-windowed topic
// so selection never hard-fails.
func (p *Picker) PickTopic(topics []string, window Window) (string, error) {
	if len(topics) == 0 {
		return "", ErrNoTopics
	}
	return p.pickFresh(topics, window), nil
}

// PickWonder chooses a wonder type with the same exclusion-with-fallback
// algorithm as PickTopic.
func (p *Picker) PickWonder(wonders []string, window Window) (string, error) {
	if len(wonders) == 0 {
		return "", ErrNoWonderTypes
	}
	return p.pickFresh(wonders, window), nil
}

func (p *Picker) pickFresh(options []string, window Window) string {
	fresh := make([]string, 0, len(options))
	for _, opt := range options {
		if !window.Contains(opt) {
			fresh = append(fresh, opt)
		}
	}
	if len(fresh) > 0 {
		return fresh[p.rng.Intn(len(fresh))]
	}
	// Every option is inside the window. The oldest entry is the next to
	// scroll out, so it becomes eligible again.
	if oldest, ok := window.Oldest(); ok {
		return oldest
	}
	return options[p.rng.Intn(len(options))]
}

// Callback decides whether the new post should reference an older one and,
// if so, picks the target uniformly from posts aged 7-14 days. No eligible
// candidate forces no callback regardless of the draw.
func (p *Picker) Callback(state HistoryState, now time.Time) *Post {
	if p.rng.Float64() >= p.callbackChance {
		return nil
	}
	candidates := CallbackCandidates(state, now)
	if len(candidates) == 0 {
		return nil
	}
	chosen := candidates[p.rng.Intn(len(candidates))]
	return &chosen
}
