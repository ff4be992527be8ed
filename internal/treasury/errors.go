package treasury

import "errors"

// Sentinel errors surfaced by engine operations. None are retried
// internally; the caller decides whether to rerun the cycle.
var (
	// ErrInvalidAmount marks a negative or non-finite revenue amount,
	// rejected before any state mutation.
	ErrInvalidAmount = errors.New("treasury: invalid amount")

	// ErrModuleNotFound marks an unknown module id passed to an unlock
	// operation.
	ErrModuleNotFound = errors.New("treasury: module not found")

	// ErrInvalidTransition marks an unlock operation attempted from a state
	// that does not permit it.
	ErrInvalidTransition = errors.New("treasury: invalid transition")

	// ErrPersistence wraps a read/write failure on durable state. The
	// in-memory state is left untouched when a write fails.
	ErrPersistence = errors.New("treasury: persistence failure")
)
