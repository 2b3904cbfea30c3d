package progression

import (
	"errors"
	"fmt"
)

// ErrAlreadyCompleted is returned when a completion already exists for the
// same task and calendar day. Callers surface it as "already done" rather
// than a generic failure, which makes client-side retries safe.
var ErrAlreadyCompleted = errors.New("task already completed for this day")

// ValidationError indicates a caller contract violation (bad difficulty,
// unknown XP amount, malformed input). Nothing is persisted when it fires.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConflictError indicates the requested transition is not allowed from the
// current state, e.g. starting a boss fight while one is active.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// StoreError wraps a persistence failure. The engine propagates these
// unchanged; Retryable tells the caller whether trying again can help.
type StoreError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
