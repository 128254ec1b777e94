package simulate

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/agrawalsparsh/housing-ranker/pkg/logger"
)

// Synthetic attribute ranges, loosely shaped like a real listing sheet.
const (
	minCost     = 1800
	costRange   = 3200
	minSqft     = 400
	sqftRange   = 900
	maxBedrooms = 4
)

// WriteSeedCSV writes a synthetic listing sheet the server can ingest via
// RANKER_SHEET_CSV_URL pointed at the file. Links are uuid-based so every
// generated listing gets a distinct stable id.
func WriteSeedCSV(ctx context.Context, path string, n int) error {
	if n < 2 {
		return fmt.Errorf("need at least 2 listings, got %d", n)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating seed csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Link", "Cost", "Square Feet", "Bedrooms", "Bathrooms", "Address"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := 0; i < n; i++ {
		row := []string{
			"https://example.com/listing/" + uuid.New().String(),
			strconv.Itoa(minCost + rand.Intn(costRange)), //nolint:gosec // synthetic data only
			strconv.Itoa(minSqft + rand.Intn(sqftRange)), //nolint:gosec // synthetic data only
			strconv.Itoa(1 + rand.Intn(maxBedrooms)),     //nolint:gosec // synthetic data only
			strconv.Itoa(1 + rand.Intn(2)),               //nolint:gosec // synthetic data only
			fmt.Sprintf("%d Example St, Apt %d", 100+i, 1+i%20),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing seed csv: %w", err)
	}

	logger.Get().Info(ctx, "seed csv written",
		logger.String("path", path),
		logger.Int("listings", n),
	)
	return nil
}
