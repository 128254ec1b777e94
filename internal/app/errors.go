package app

import "errors"

// Sentinel kinds for decision validation errors. These are rejected before
// any state mutation.
var (
	ErrMissingDecisionID = errors.New("missing decision id")
	ErrSameListing       = errors.New("winner and loser must be distinct listings")
)
