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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if RISKSET_CONFIG is set
//  3. env (prefix RISKSET_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RISKSET_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RISKSET_COHORT_SIZE, RISKSET_STRICT, ...
	// Map env keys like RISKSET_COHORT_SIZE -> cohort_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RISKSET_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "riskset_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Replicates <= 0 {
		return nil, fmt.Errorf("%w: replicates must be positive", ErrInvalidConfig)
	}
	if cfg.CohortSize < 0 {
		return nil, fmt.Errorf("%w: cohort_size must not be negative", ErrInvalidConfig)
	}
	if cfg.EventRate <= 0 || cfg.CompetingRate < 0 || cfg.CensorRate < 0 {
		return nil, fmt.Errorf("%w: rates must be non-negative and event_rate positive", ErrInvalidConfig)
	}
	if cfg.WeightJitter < 0 || cfg.WeightJitter >= 1 {
		return nil, fmt.Errorf("%w: weight_jitter must be in [0,1)", ErrInvalidConfig)
	}
	return &cfg, nil
}
