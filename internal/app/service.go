// Package app provides the core business service that implements the
// dependencies required by the HTTP API: one comparison-decision-update
// cycle at a time over the persisted rating state.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrawalsparsh/housing-ranker/internal/adapters/repository"
	"github.com/agrawalsparsh/housing-ranker/internal/adapters/source"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/dedupe"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/model"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/pairing"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/ranking"
	"github.com/agrawalsparsh/housing-ranker/internal/domain/rating"
	"github.com/agrawalsparsh/housing-ranker/pkg/logger"
	"github.com/agrawalsparsh/housing-ranker/pkg/metrics"
)

// Service implements the API dependencies for the ranking system.
type Service struct {
	mu sync.Mutex

	// Core components
	store    repository.Store
	src      source.Source
	selector pairing.Selector
	engine   *rating.Engine
	deduper  dedupe.Deduper

	// Candidate set: id -> listing with display attributes. Listings that
	// drop out of the source stop being selectable but their ratings and
	// history stay in the store.
	listings map[string]model.Listing

	// Configuration
	stateFile    string
	sheetURL     string
	baseline     float64
	kFactor      float64
	recentWindow int
	dedupeSize   int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateFile sets the path of the persisted rating state.
func WithStateFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.stateFile = path
		}
	}
}

// WithSheetURL sets the spreadsheet CSV export to ingest at startup.
func WithSheetURL(url string) Option {
	return func(s *Service) {
		s.sheetURL = url
	}
}

// WithBaselineRating sets the rating assigned to newly seen listings.
func WithBaselineRating(baseline float64) Option {
	return func(s *Service) {
		if baseline > 0 {
			s.baseline = baseline
		}
	}
}

// WithKFactor sets the maximum per-match rating point exchange.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k >= 0 {
			s.kFactor = k
		}
	}
}

// WithRecentPairWindow sets how many recent matches the selector avoids repeating.
func WithRecentPairWindow(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.recentWindow = n
		}
	}
}

// WithDedupeSize bounds the decision idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithStore injects a store implementation, mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSource injects a listing source implementation, mainly for tests.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithSelector injects a pair selector implementation.
func WithSelector(sel pairing.Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		listings:     make(map[string]model.Listing),
		stateFile:    "ranker_state.json",
		baseline:     1000,
		kFactor:      rating.DefaultKFactor,
		recentWindow: 5,
		dedupeSize:   10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads persisted state, ingests the listing source, and prepares the
// comparison loop. A corrupt state file fails Start; it is never silently
// replaced with an empty state.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.engine = rating.New(rating.WithKFactor(s.kFactor))
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	if s.selector == nil {
		s.selector = pairing.NewRandomSelector(pairing.WithRecentWindow(s.recentWindow))
	}
	if s.store == nil {
		s.store = repository.NewFileStore(s.stateFile)
	}
	if s.src == nil && s.sheetURL != "" {
		s.src = source.NewSheetSource(s.sheetURL)
	}

	if err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("loading rating state: %w", err)
	}
	s.logger.Info(ctx, "rating state loaded",
		logger.Int("listings", s.store.Count(ctx)),
		logger.Int("matches", len(s.store.History(ctx, 0))),
	)

	if s.src != nil {
		if err := s.ingestLocked(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.refreshGauges(ctx)
	s.logger.Info(ctx, "ranking service started",
		logger.Float64("kFactor", s.kFactor),
		logger.Float64("baseline", s.baseline),
		logger.Int("candidates", len(s.listings)),
	)
	return nil
}

// ingestLocked pulls the listing set from the source and ensures every
// listing has a rating. Idempotent across restarts: known ids keep their
// ratings. Callers must hold the mutex.
func (s *Service) ingestLocked(ctx context.Context) error {
	fetched, err := s.src.Listings(ctx)
	if err != nil {
		return fmt.Errorf("ingesting listings: %w", err)
	}

	inserted := 0
	s.listings = make(map[string]model.Listing, len(fetched))
	for _, l := range fetched {
		s.listings[l.ID] = l
		if s.store.EnsureListing(ctx, l.ID, s.baseline) {
			inserted++
		}
	}
	if inserted > 0 {
		if err := s.store.Save(ctx); err != nil {
			return fmt.Errorf("persisting ingested listings: %w", err)
		}
	}
	s.logger.Info(ctx, "listings ingested",
		logger.Int("total", len(fetched)),
		logger.Int("new", inserted),
	)
	return nil
}

// Stop shuts the service down. State is persisted on every mutation, so
// there is nothing to flush here.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "ranking service stopped")
}

// NextPair picks two distinct candidates and returns them with their
// current ratings for display.
func (s *Service) NextPair(ctx context.Context) (model.Listing, model.Listing, float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]string, 0, len(s.listings))
	for id := range s.listings {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates) // deterministic input order for the selector

	aID, bID, err := s.selector.NextPair(ctx, candidates, s.store.History(ctx, 0))
	if err != nil {
		return model.Listing{}, model.Listing{}, 0, 0, err
	}

	ra, err := s.store.Rating(ctx, aID)
	if err != nil {
		return model.Listing{}, model.Listing{}, 0, 0, err
	}
	rb, err := s.store.Rating(ctx, bID)
	if err != nil {
		return model.Listing{}, model.Listing{}, 0, 0, err
	}

	metrics.RecordPairServed()
	return s.listings[aID], s.listings[bID], ra, rb, nil
}

// RecordDecision validates and applies one comparison decision. It returns
// the recorded match, or duplicate=true when the decision id was already
// applied. On any error no state has changed and the decision may be
// retried with the same id.
func (s *Service) RecordDecision(ctx context.Context, d model.Decision) (match model.Match, duplicate bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.DecisionID == "" {
		return model.Match{}, false, ErrMissingDecisionID
	}
	if d.WinnerID == d.LoserID {
		return model.Match{}, false, ErrSameListing
	}

	winnerBefore, err := s.store.Rating(ctx, d.WinnerID)
	if err != nil {
		metrics.RecordDecisionError()
		return model.Match{}, false, err
	}
	loserBefore, err := s.store.Rating(ctx, d.LoserID)
	if err != nil {
		metrics.RecordDecisionError()
		return model.Match{}, false, err
	}

	if s.deduper.SeenAndRecord(ctx, d.DecisionID) {
		metrics.RecordDuplicateDecision()
		s.logger.Debug(ctx, "duplicate decision acknowledged",
			logger.String("decisionID", d.DecisionID),
		)
		return model.Match{}, true, nil
	}

	winnerAfter, loserAfter, err := s.engine.Update(winnerBefore, loserBefore, rating.OutcomeAWins)
	if err != nil {
		s.deduper.Unrecord(ctx, d.DecisionID)
		metrics.RecordDecisionError()
		return model.Match{}, false, err
	}

	m := model.Match{
		ID:           uuid.New().String(),
		WinnerID:     d.WinnerID,
		LoserID:      d.LoserID,
		Timestamp:    time.Now().UTC(),
		WinnerBefore: winnerBefore,
		LoserBefore:  loserBefore,
		WinnerAfter:  winnerAfter,
		LoserAfter:   loserAfter,
	}
	if err := s.store.ApplyMatch(ctx, m); err != nil {
		// Not durably recorded; free the decision id so the client can retry.
		s.deduper.Unrecord(ctx, d.DecisionID)
		metrics.RecordDecisionError()
		s.logger.Error(ctx, "decision not recorded",
			logger.String("decisionID", d.DecisionID),
			logger.Error(err),
		)
		return model.Match{}, false, err
	}

	metrics.RecordMatchApplied()
	s.refreshGauges(ctx)
	s.logger.Info(ctx, "match recorded",
		logger.String("winner", m.WinnerID),
		logger.String("loser", m.LoserID),
		logger.Float64("winnerRating", m.WinnerAfter),
		logger.Float64("loserRating", m.LoserAfter),
	)
	return m, false, nil
}

// Rankings returns the leaderboard, capped at limit entries.
// limit <= 0 returns the full board.
func (s *Service) Rankings(ctx context.Context, limit int) []ranking.Entry {
	ratings := s.store.Ratings(ctx)
	if limit <= 0 {
		return ranking.Rankings(ratings)
	}
	return ranking.TopN(ratings, limit)
}

// History returns the most recent limit match records, oldest first.
func (s *Service) History(ctx context.Context, limit int) []model.Match {
	return s.store.History(ctx, limit)
}

// Listings returns the current candidate set ordered by id.
func (s *Service) Listings(_ context.Context) []model.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Listing returns the attribute bag for one candidate, if present.
func (s *Service) Listing(_ context.Context, id string) (model.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	return l, ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  s.started,
		"kFactor":  s.kFactor,
		"baseline": s.baseline,
	}
	if s.started {
		ratings := s.store.Ratings(ctx)
		stats["candidates"] = len(s.listings)
		stats["trackedListings"] = len(ratings)
		stats["matches"] = len(s.store.History(ctx, 0))
		stats["totalRatingMass"] = totalMass(ratings)
		stats["dedupedDecisions"] = s.deduper.Size()
	}
	return stats
}

// refreshGauges pushes current state sizes into the metrics gauges.
func (s *Service) refreshGauges(ctx context.Context) {
	ratings := s.store.Ratings(ctx)
	metrics.UpdateListingCount(len(ratings))
	metrics.UpdateHistoryLength(len(s.store.History(ctx, 0)))
	metrics.UpdateTotalRatingMass(totalMass(ratings))
}

func totalMass(ratings map[string]float64) float64 {
	var mass float64
	for _, r := range ratings {
		mass += r
	}
	return mass
}
