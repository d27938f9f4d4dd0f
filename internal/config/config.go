// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus listen address, e.g. ":9090".
	// Empty disables the metrics endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// Strict enables strict input validation in the estimator: out-of-domain
	// event codes and negative weights are rejected instead of passed through.
	Strict bool `koanf:"strict"`

	// Parallelism caps concurrent goroutines for aggregation and replicates.
	Parallelism int `koanf:"parallelism"`

	// Replicates sets the number of synthetic cohorts per study run.
	Replicates int `koanf:"replicates"`

	// CohortSize sets the number of subjects per synthetic cohort.
	CohortSize int `koanf:"cohort_size"`

	// Seed makes cohort generation deterministic.
	Seed int64 `koanf:"seed"`

	// EventRate and CompetingRate are exponential rates for the latent times
	// of the event of interest and the competing event.
	EventRate     float64 `koanf:"event_rate"`
	CompetingRate float64 `koanf:"competing_rate"`

	// CensorRate is the exponential rate for the latent censoring time.
	CensorRate float64 `koanf:"censor_rate"`

	// WeightJitter sets the half-width of the case-weight band around 1.0.
	// Zero produces unit weights.
	WeightJitter float64 `koanf:"weight_jitter"`

	// TiePrecision rounds generated times to this many decimals to create
	// tied event times. Negative disables rounding.
	TiePrecision int `koanf:"tie_precision"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:      "info",
		MetricsAddr:   "",
		Strict:        false,
		Parallelism:   runtime.NumCPU(),
		Replicates:    4,
		CohortSize:    10_000,
		Seed:          1,
		EventRate:     0.10,
		CompetingRate: 0.05,
		CensorRate:    0.02,
		WeightJitter:  0.25,
		TiePrecision:  1,
	}
	return c
}
