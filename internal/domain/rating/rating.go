// Package rating implements the pairwise Elo update used to rank listings.
//
// The engine is pure: it maps two current ratings and an outcome to two new
// ratings and never touches storage. Point exchange is symmetric, so the
// total rating mass of a pair is conserved by every update, and the step for
// either side is bounded by the K-factor.
package rating

import (
	"fmt"
	"math"
)

// DefaultKFactor is the maximum per-match rating point exchange.
const DefaultKFactor = 32.0

// spreadDivisor controls how rating gaps translate into win probability:
// a 400-point gap means 10:1 expected odds.
const spreadDivisor = 400.0

// Outcome encodes the human's choice for a presented pair.
// Ties are deliberately not an outcome: the source of truth for this system
// is a binary this-or-that decision.
type Outcome int

const (
	// OutcomeAWins means the first listing of the pair was preferred.
	OutcomeAWins Outcome = iota + 1
	// OutcomeBWins means the second listing of the pair was preferred.
	OutcomeBWins
)

// Valid reports whether the outcome is one of the supported values.
func (o Outcome) Valid() bool {
	return o == OutcomeAWins || o == OutcomeBWins
}

func (o Outcome) String() string {
	switch o {
	case OutcomeAWins:
		return "a_wins"
	case OutcomeBWins:
		return "b_wins"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ExpectedScore returns the predicted win probability of a rating-ra side
// against a rating-rb side.
func ExpectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/spreadDivisor))
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor overrides the default K-factor. Non-positive values are
// ignored except zero, which is allowed and makes every update a no-op.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k >= 0 {
			e.k = k
		}
	}
}

// Engine computes rating updates for comparison outcomes.
type Engine struct {
	k float64
}

// New creates an Engine with the default K-factor unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{k: DefaultKFactor}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// K returns the configured K-factor.
func (e *Engine) K() float64 {
	return e.k
}

// Update returns the new ratings for sides a and b after the given outcome.
// The outcome is validated before anything else so callers can rely on no
// state having moved when an error comes back.
func (e *Engine) Update(ra, rb float64, outcome Outcome) (newA, newB float64, err error) {
	if !outcome.Valid() {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}

	ea := ExpectedScore(ra, rb)
	eb := 1.0 - ea

	var sa, sb float64
	if outcome == OutcomeAWins {
		sa, sb = 1.0, 0.0
	} else {
		sa, sb = 0.0, 1.0
	}

	newA = ra + e.k*(sa-ea)
	newB = rb + e.k*(sb-eb)
	return newA, newB, nil
}
