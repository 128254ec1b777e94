package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agrawalsparsh/housing-ranker/pkg/logger"
)

// Run executes the full simulation: health check, decision loop, duplicate
// probe, then invariant verification against /rankings.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.Timeout)
	log := logger.Get()

	log.Info(ctx, "starting match simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.Matches),
	)

	if status, err := client.getJSON(ctx, config.BaseURL+"/healthz", nil); err != nil || status != http.StatusOK {
		return fmt.Errorf("service health check failed (status %d): %w", status, err)
	}

	var listings []listing
	if status, err := client.getJSON(ctx, config.BaseURL+"/listings", &listings); err != nil || status != http.StatusOK {
		return fmt.Errorf("fetching listings failed (status %d): %w", status, err)
	}
	if len(listings) < 2 {
		return fmt.Errorf("need at least 2 ingested listings to simulate, have %d; seed a sheet first", len(listings))
	}
	baselineMass := ratingMassBefore(ctx, client, config)

	var lastDecision *matchRequest
	for i := 0; i < config.Matches; i++ {
		var pair pairResponse
		status, err := client.getJSON(ctx, config.BaseURL+"/pair", &pair)
		if err != nil || status != http.StatusOK {
			return fmt.Errorf("fetching pair %d failed (status %d): %w", i, status, err)
		}
		stats.PairsFetched++

		winner, loser := pair.A.Listing.ID, pair.B.Listing.ID
		if rand.Float64() < 0.5 { //nolint:gosec // simulation only
			winner, loser = loser, winner
		}

		req := matchRequest{
			DecisionID: uuid.New().String(),
			WinnerID:   winner,
			LoserID:    loser,
		}
		var ack matchResponse
		status, err = client.postJSON(ctx, config.BaseURL+"/matches", req, &ack)
		stats.DecisionsSubmitted++
		switch {
		case err != nil:
			stats.DecisionsFailed++
			return fmt.Errorf("submitting decision %d: %w", i, err)
		case status == http.StatusCreated:
			stats.DecisionsRecorded++
			lastDecision = &req
		case status == http.StatusOK && ack.Duplicate:
			stats.DecisionsDuplicate++
		default:
			stats.DecisionsFailed++
			return fmt.Errorf("decision %d rejected with status %d", i, status)
		}

		if config.Verbose {
			log.Debug(ctx, "decision applied",
				logger.String("winner", winner),
				logger.String("loser", loser),
			)
		}
	}

	// Replaying the last decision id must be acknowledged as a duplicate
	// and must not move any rating.
	if lastDecision != nil {
		var ack matchResponse
		status, err := client.postJSON(ctx, config.BaseURL+"/matches", *lastDecision, &ack)
		if err != nil || status != http.StatusOK || !ack.Duplicate {
			return fmt.Errorf("duplicate probe failed: status %d, duplicate=%v, err=%v", status, ack.Duplicate, err)
		}
		stats.DecisionsDuplicate++
		log.Info(ctx, "duplicate probe acknowledged without re-applying")
	}

	var rankings []rankingEntry
	if status, err := client.getJSON(ctx, config.BaseURL+"/rankings", &rankings); err != nil || status != http.StatusOK {
		return fmt.Errorf("fetching rankings failed (status %d): %w", status, err)
	}

	if err := verifyRankings(ctx, rankings, baselineMass); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "simulation complete",
		logger.Int("pairs", stats.PairsFetched),
		logger.Int("recorded", stats.DecisionsRecorded),
		logger.Int("duplicates", stats.DecisionsDuplicate),
		logger.Int("failed", stats.DecisionsFailed),
		logger.Duration("duration", stats.Duration),
	)
	return nil
}

// ratingMassBefore sums the board's ratings before the decision loop, so
// conservation can be checked afterwards without knowing the baseline.
func ratingMassBefore(ctx context.Context, client *httpClient, config *Config) float64 {
	var rankings []rankingEntry
	if status, err := client.getJSON(ctx, config.BaseURL+"/rankings", &rankings); err != nil || status != http.StatusOK {
		return 0
	}
	var mass float64
	for _, e := range rankings {
		mass += e.Rating
	}
	return mass
}
