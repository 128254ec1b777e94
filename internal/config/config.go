// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env on top.
// - External errors must be wrapped via this package's error sentinels.
package config

// Default rating parameters. BaselineRating is the score every listing
// starts at; KFactor bounds the per-match point exchange.
const (
	defaultBaselineRating = 1000.0
	defaultKFactor        = 32.0
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StateFile is the path of the persisted ratings/history state.
	StateFile string `koanf:"state_file"`

	// SheetCSVURL points at the spreadsheet CSV export (http(s) URL or
	// local file path). Empty means no ingestion at startup.
	SheetCSVURL string `koanf:"sheet_csv_url"`

	// BaselineRating is assigned to a listing the first time it is seen.
	BaselineRating float64 `koanf:"baseline_rating"`

	// KFactor is the maximum per-match rating point exchange.
	KFactor float64 `koanf:"k_factor"`

	// MaxRankingsLimit caps GET /rankings?limit.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`

	// RecentPairWindow is how many recent matches the pair selector
	// inspects to avoid immediate repeats. Zero disables the bias.
	RecentPairWindow int `koanf:"recent_pair_window"`

	// DedupeSize bounds the decision idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		StateFile:        "ranker_state.json",
		SheetCSVURL:      "",
		BaselineRating:   defaultBaselineRating,
		KFactor:          defaultKFactor,
		MaxRankingsLimit: 100,
		RecentPairWindow: 5,
		DedupeSize:       10_000,
	}
}
