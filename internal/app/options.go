package app

import (
	"github.com/okian/riskset/pkg/logger"
)

// Option applies a configuration option to the Study.
type Option func(*Study)

// WithCohortSize sets the number of subjects per replicate cohort.
func WithCohortSize(n int) Option {
	return func(s *Study) {
		if n >= 0 {
			s.cohortSize = n
		}
	}
}

// WithSeed sets the base random seed; replicate r uses seed+r.
func WithSeed(seed int64) Option {
	return func(s *Study) {
		s.seed = seed
	}
}

// WithRates sets the exponential rates for the event of interest, the
// competing event, and censoring.
func WithRates(event, competing, censor float64) Option {
	return func(s *Study) {
		s.eventRate = event
		s.competingRate = competing
		s.censorRate = censor
	}
}

// WithWeightJitter sets the half-width of the case-weight band around 1.0.
func WithWeightJitter(jitter float64) Option {
	return func(s *Study) {
		if jitter >= 0 && jitter < 1 {
			s.weightJitter = jitter
		}
	}
}

// WithTiePrecision rounds generated times to this many decimals.
func WithTiePrecision(decimals int) Option {
	return func(s *Study) {
		s.tiePrecision = decimals
	}
}

// WithStrictEstimation enables strict input validation in the estimator.
func WithStrictEstimation() Option {
	return func(s *Study) {
		s.strict = true
	}
}

// WithParallelism caps goroutines inside a single estimate.
func WithParallelism(n int) Option {
	return func(s *Study) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithReplicates sets the number of replicate cohorts.
func WithReplicates(n int) Option {
	return func(s *Study) {
		if n > 0 {
			s.replicates = n
		}
	}
}

// WithConcurrency caps concurrently running replicates.
func WithConcurrency(n int) Option {
	return func(s *Study) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTolerance sets the floating tolerance for invariant verification.
func WithTolerance(tol float64) Option {
	return func(s *Study) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithLogger sets the study logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Study) {
		if l != nil {
			s.logger = l.Named("study")
		}
	}
}
