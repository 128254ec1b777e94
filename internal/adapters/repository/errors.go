package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrCorruptState marks a state file that exists but cannot be read
	// or parsed. Deliberately distinct from the empty first-run state so
	// callers never mistake data loss for a fresh start.
	ErrCorruptState = errors.New("corrupt state file")

	// ErrListingNotFound is returned for rating lookups or match
	// applications naming an id the store has never seen.
	ErrListingNotFound = errors.New("listing not found")

	// ErrSaveFailed wraps any persistence failure. The decision that
	// triggered the save has NOT been recorded and may be retried.
	ErrSaveFailed = errors.New("state save failed")
)
