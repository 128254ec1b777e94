// Package pairing chooses which two listings to present for comparison.
package pairing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
)

// maxDrawAttempts bounds the recent-pair avoidance loop. After this many
// redraws the selector returns whatever it drew last, so it always
// terminates even when every possible pair was seen recently.
const maxDrawAttempts = 8

// Selector produces the next pair of distinct listing ids to compare.
type Selector interface {
	// NextPair returns two distinct ids from candidates, or
	// ErrNotEnoughListings when fewer than two distinct candidates exist.
	NextPair(ctx context.Context, candidates []string, history []model.Match) (string, string, error)
}

// Option applies a configuration option to the random selector.
type Option func(*randomSelector)

// WithRecentWindow sets how many trailing history entries are checked to
// avoid repeating a recently compared pair. Zero disables the bias.
func WithRecentWindow(n int) Option {
	return func(s *randomSelector) {
		if n >= 0 {
			s.recentWindow = n
		}
	}
}

// WithSeed fixes the random source, for deterministic tests.
func WithSeed(seed int64) Option {
	return func(s *randomSelector) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // selection only needs uniformity, not secrecy
	}
}

// randomSelector implements Selector with uniform random draws biased away
// from the most recent pairings.
type randomSelector struct {
	mu           sync.Mutex
	rng          *rand.Rand
	recentWindow int
}

// NewRandomSelector creates a Selector with configuration options.
func NewRandomSelector(opts ...Option) Selector {
	s := &randomSelector{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection only needs uniformity, not secrecy
		recentWindow: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *randomSelector) NextPair(ctx context.Context, candidates []string, history []model.Match) (string, string, error) {
	distinct := dedupe(candidates)
	if len(distinct) < 2 {
		return "", "", ErrNotEnoughListings
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := recentPairs(history, s.recentWindow)

	var a, b string
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		i := s.rng.Intn(len(distinct))
		j := s.rng.Intn(len(distinct) - 1)
		if j >= i {
			j++
		}
		a, b = distinct[i], distinct[j]
		// With exactly two candidates there is only one pair; redrawing
		// could never produce anything else, so take it immediately.
		if len(distinct) == 2 {
			break
		}
		if !recent[pairKey(a, b)] {
			break
		}
	}
	return a, b, nil
}

// dedupe returns the distinct ids preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// recentPairs collects the unordered pair keys of the trailing window of history.
func recentPairs(history []model.Match, window int) map[string]bool {
	recent := make(map[string]bool, window)
	if window <= 0 {
		return recent
	}
	start := len(history) - window
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		recent[pairKey(m.WinnerID, m.LoserID)] = true
	}
	return recent
}

// pairKey builds an order-insensitive key for a pair of ids.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
