package simulate

import (
	"context"
	"fmt"
	"math"

	"github.com/agrawalsparsh/housing-ranker/pkg/logger"
)

// massTolerance absorbs float accumulation over long decision runs.
const massTolerance = 1e-6

// verifyRankings checks the two externally observable invariants:
// conservation of total rating mass and strict leaderboard ordering.
func verifyRankings(ctx context.Context, rankings []rankingEntry, expectedMass float64) error {
	if len(rankings) == 0 {
		return fmt.Errorf("empty rankings")
	}

	var mass float64
	for i, e := range rankings {
		mass += e.Rating
		if e.Rank != i+1 {
			return fmt.Errorf("rank gap at position %d: got rank %d", i, e.Rank)
		}
		if i > 0 {
			prev := rankings[i-1]
			if e.Rating > prev.Rating {
				return fmt.Errorf("ordering violated at rank %d: %.4f above %.4f", e.Rank, e.Rating, prev.Rating)
			}
			if e.Rating == prev.Rating && e.ListingID < prev.ListingID {
				return fmt.Errorf("tie-break violated at rank %d: %s before %s", e.Rank, prev.ListingID, e.ListingID)
			}
		}
	}

	if expectedMass > 0 && math.Abs(mass-expectedMass) > massTolerance*math.Max(1, expectedMass) {
		return fmt.Errorf("rating mass not conserved: have %.6f, want %.6f", mass, expectedMass)
	}

	logger.Get().Info(ctx, "invariants verified",
		logger.Int("entries", len(rankings)),
		logger.Float64("ratingMass", mass),
	)
	return nil
}
