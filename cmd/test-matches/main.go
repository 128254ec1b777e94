package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/agrawalsparsh/housing-ranker/internal/simulate"
	"github.com/agrawalsparsh/housing-ranker/pkg/logger"
)

// Default configuration constants.
const (
	defaultMatches     = 200
	defaultListings    = 20
	defaultTimeout     = 30 * time.Second
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matches  = flag.Int("matches", defaultMatches, "Number of decisions to submit")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seedCSV  = flag.String("seed-csv", "", "Write a synthetic listing CSV to this path and exit")
		listings = flag.Int("listings", defaultListings, "Number of synthetic listings for -seed-csv")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunDeadline)
	defer cancel()

	if *seedCSV != "" {
		if err := simulate.WriteSeedCSV(ctx, *seedCSV, *listings); err != nil {
			os.Stderr.WriteString("seed generation failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	config := &simulate.Config{
		BaseURL:  *baseURL,
		Matches:  *matches,
		Timeout:  *timeout,
		SeedCSV:  *seedCSV,
		Listings: *listings,
		Verbose:  *verbose,
	}
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
