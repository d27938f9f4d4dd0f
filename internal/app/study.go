// Package app provides the study service that wires cohort generation,
// estimation, and result verification together.
package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/riskset/internal/domain/cohort"
	"github.com/okian/riskset/internal/domain/model"
	"github.com/okian/riskset/internal/domain/survival"
	"github.com/okian/riskset/pkg/logger"
	"github.com/okian/riskset/pkg/metrics"
)

// Default study configuration constants.
const (
	defaultReplicates   = 4
	defaultTolerance    = 1e-9
	millisecondsPerNano = 1e-6
)

// Study runs replicate simulations: generate a synthetic cohort, estimate
// the Aalen-Johansen table, verify its invariants, and log a summary.
type Study struct {
	// Cohort configuration
	cohortSize    int
	seed          int64
	eventRate     float64
	competingRate float64
	censorRate    float64
	weightJitter  float64
	tiePrecision  int

	// Estimator configuration
	strict      bool
	parallelism int

	// Orchestration
	replicates  int
	concurrency int
	tolerance   float64

	// Logging
	logger logger.Logger
}

// New creates a Study with configuration options.
func New(opts ...Option) *Study {
	s := &Study{
		cohortSize:    1000,
		seed:          1,
		eventRate:     0.10,
		competingRate: 0.05,
		censorRate:    0.02,
		weightJitter:  0,
		tiePrecision:  1,
		replicates:    defaultReplicates,
		concurrency:   runtime.NumCPU(),
		tolerance:     defaultTolerance,
		logger:        logger.Get().Named("study"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes all replicates and fails on the first estimation error or
// invariant violation.
func (s *Study) Run(ctx context.Context) error {
	start := time.Now()

	s.logger.Info(ctx, "starting study",
		logger.Int("replicates", s.replicates),
		logger.Int("cohortSize", s.cohortSize),
		logger.Int64("seed", s.seed),
		logger.Float64("eventRate", s.eventRate),
		logger.Float64("competingRate", s.competingRate),
		logger.Float64("censorRate", s.censorRate))

	estimator := survival.New(s.estimatorOptions()...)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for r := 0; r < s.replicates; r++ {
		r := r
		eg.Go(func() error {
			return s.runReplicate(egCtx, r, estimator)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	metrics.RecordStudyDuration(float64(elapsed.Nanoseconds()) * millisecondsPerNano)
	s.logger.Info(ctx, "study completed",
		logger.Int("replicates", s.replicates),
		logger.String("duration", elapsed.String()))
	return nil
}

func (s *Study) estimatorOptions() []survival.Option {
	var opts []survival.Option
	if s.strict {
		opts = append(opts, survival.WithStrictValidation())
	}
	if s.parallelism > 0 {
		opts = append(opts, survival.WithParallelism(s.parallelism))
	}
	return opts
}

// runReplicate generates one cohort, estimates, verifies, and summarizes.
func (s *Study) runReplicate(ctx context.Context, replicate int, estimator *survival.Estimator) error {
	gen := cohort.New(
		cohort.WithSize(s.cohortSize),
		cohort.WithSeed(s.seed+int64(replicate)),
		cohort.WithRates(s.eventRate, s.competingRate, s.censorRate),
		cohort.WithWeightJitter(s.weightJitter),
		cohort.WithTiePrecision(s.tiePrecision),
	)

	obs, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("replicate %d: cohort generation: %w", replicate, err)
	}

	times, codes, weights := model.Split(obs)
	table, err := estimator.Estimate(ctx, times, codes, weights)
	if err != nil {
		return fmt.Errorf("replicate %d: estimation: %w", replicate, err)
	}

	if err := Verify(table, s.tolerance); err != nil {
		metrics.RecordVerificationFailure()
		return fmt.Errorf("replicate %d: %w", replicate, err)
	}

	metrics.RecordReplicate()
	s.summarize(ctx, replicate, len(obs), table)
	return nil
}

// summarize logs the tail of the estimated curves for one replicate.
func (s *Study) summarize(ctx context.Context, replicate, observations int, table *survival.Table) {
	fields := []logger.Field{
		logger.Int("replicate", replicate),
		logger.Int("observations", observations),
		logger.Int("distinctTimes", table.Len()),
	}
	if !table.IsEmpty() {
		last := table.Row(table.Len() - 1)
		fields = append(fields,
			logger.Float64("finalSurvival", last.OverallSurvival),
			logger.Float64("finalCIF1", last.CIF1),
			logger.Float64("finalCIF2", last.CIF2))
		if median, ok := table.MedianSurvivalTime(); ok {
			fields = append(fields, logger.Float64("medianSurvivalTime", median))
		}
	}
	s.logger.Info(ctx, "replicate summary", fields...)
}
