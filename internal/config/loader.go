package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RANKER_CONFIG is set
//  3. env (prefix RANKER_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RANKER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RANKER_ADDR, RANKER_STATE_FILE, ...
	// Map env keys like RANKER_K_FACTOR -> k_factor (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("RANKER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ranker_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the defaults
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.StateFile == "":
		return nil, fmt.Errorf("%w: state_file must not be empty", ErrInvalidConfig)
	case cfg.KFactor < 0:
		return nil, fmt.Errorf("%w: k_factor must not be negative", ErrInvalidConfig)
	case cfg.BaselineRating <= 0:
		return nil, fmt.Errorf("%w: baseline_rating must be positive", ErrInvalidConfig)
	case cfg.MaxRankingsLimit < 1:
		return nil, fmt.Errorf("%w: max_rankings_limit must be at least 1", ErrInvalidConfig)
	}
	return &cfg, nil
}
