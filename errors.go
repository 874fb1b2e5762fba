package feynman

import (
	"errors"
	"fmt"
)

// Common errors returned by the engine.
var (
	// ErrNothingToReveal is returned by Answer when no puzzle answer is pending.
	ErrNothingToReveal = errors.New("no pending puzzle answer to reveal")

	// ErrAlreadyPostedToday is returned by Daily when the idempotence gate is
	// enabled and history already holds a post for the requested date.
	ErrAlreadyPostedToday = errors.New("already posted today")

	// ErrStateNotSaved wraps persistence failures that occur after content was
	// successfully generated. The content is still returned to the caller.
	ErrStateNotSaved = errors.New("history state not saved")

	// ErrNoTopics is returned when selection runs with an empty topic list.
	ErrNoTopics = errors.New("no topics configured")

	// ErrNoWonderTypes is returned when selection runs with an empty
	// wonder-type list.
	ErrNoWonderTypes = errors.New("no wonder types configured")

	// ErrEmptyContent is returned when the generator produces empty content.
	ErrEmptyContent = errors.New("generator returned empty content")
)

// ValidationError is returned when configuration validation fails.
// Extractable via errors.As().
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// GenerationError is returned when the generation collaborator fails.
// Extractable via errors.As(). Supports Unwrap().
type GenerationError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generate: %s failed (status %d): %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generate: %s failed: %v", e.Operation, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
