// Package repository owns the canonical rating state: the rating per
// listing and the append-only match history, persisted as one file.
package repository

import (
	"context"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// Store provides read/write access to the persisted rating state.
//
// The store is the only component allowed to perform I/O. Every mutation
// commits ratings and history together: after ApplyMatch returns nil the
// decision is durably recorded, and after an error nothing has changed.
type Store interface {
	// Load reads the persisted state. A missing file is a normal first
	// run and yields an empty state with no error; an unreadable or
	// malformed file returns an error wrapping ErrCorruptState.
	Load(ctx context.Context) error

	// Save atomically persists the current state. A concurrent reader
	// never observes a partially written file.
	Save(ctx context.Context) error

	// EnsureListing inserts id at the baseline rating if absent.
	// Idempotent; reports whether the listing was newly inserted.
	EnsureListing(ctx context.Context, id string, baseline float64) bool

	// ApplyMatch writes both post-match ratings, appends the history
	// entry, and persists - all or nothing. Unknown ids return
	// ErrListingNotFound before any mutation.
	ApplyMatch(ctx context.Context, m model.Match) error

	// Rating returns the current rating for id, or ErrListingNotFound.
	Rating(ctx context.Context, id string) (float64, error)

	// Ratings returns a copy of the current ratings map.
	Ratings(ctx context.Context) map[string]float64

	// History returns the most recent limit entries of the match log,
	// oldest first. limit <= 0 returns the full log.
	History(ctx context.Context, limit int) []model.Match

	// Count returns the number of listings tracked in the state.
	Count(ctx context.Context) int
}
