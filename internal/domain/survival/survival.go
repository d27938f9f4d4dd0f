// Package survival computes the weighted Aalen-Johansen estimator for
// time-to-event data with two competing causes.
//
// The estimator consumes three aligned columns (event times, event codes in
// {0,1,2}, case weights) and produces one row per distinct event time with
// cause-specific hazards, overall survival, and cumulative incidence per
// cause. Code 0 is censoring, code 1 the event of interest, code 2 the
// competing event. With no competing events the result reduces to the
// weighted Kaplan-Meier curve.
package survival

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/okian/riskset/internal/domain/model"
	"github.com/okian/riskset/pkg/metrics"
)

// Default estimator configuration constants.
const (
	defaultParallelism = 1
	// Partition fan-out only pays off past this many distinct times.
	minPartitionsForFanout = 256
	millisecondsPerNano    = 1e-6
)

// Estimator computes weighted Aalen-Johansen tables.
// The zero options produce the permissive, sequential estimator; every
// invocation is independent and safe for concurrent use.
type Estimator struct {
	strict      bool
	parallelism int
}

// New creates an Estimator with configuration options.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		strict:      false,
		parallelism: defaultParallelism,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Estimate is a convenience wrapper using a default Estimator.
func Estimate(ctx context.Context, times []float64, eventCodes []int, weights []float64) (*Table, error) {
	return New().Estimate(ctx, times, eventCodes, weights)
}

// Estimate computes the weighted Aalen-Johansen table for the given aligned
// columns. The inputs are not mutated. An empty input yields an empty table.
// Rows where the at-risk mass is zero carry NaN hazards; they are reported,
// not rejected.
func (e *Estimator) Estimate(ctx context.Context, times []float64, eventCodes []int, weights []float64) (*Table, error) {
	start := time.Now()

	if len(times) != len(eventCodes) || len(times) != len(weights) {
		metrics.RecordEstimateError()
		return nil, fmt.Errorf("%w: times=%d event_codes=%d weights=%d",
			ErrLengthMismatch, len(times), len(eventCodes), len(weights))
	}

	if e.strict {
		if err := validateStrict(eventCodes, weights); err != nil {
			metrics.RecordStrictRejection()
			return nil, err
		}
	}

	g, err := e.aggregate(ctx, times, eventCodes, weights)
	if err != nil {
		return nil, err
	}

	table := &Table{rows: derive(g)}

	if d := table.countDegenerateRows(); d > 0 {
		metrics.RecordDegenerateRows(d)
	}
	metrics.RecordEstimate(len(times), table.Len(), float64(time.Since(start).Nanoseconds())*millisecondsPerNano)

	return table, nil
}

// validateStrict rejects out-of-domain event codes and negative weights.
// Only active when the estimator was built with WithStrictValidation.
func validateStrict(eventCodes []int, weights []float64) error {
	for i, c := range eventCodes {
		if c < model.Censored || c > model.CompetingEvent {
			return fmt.Errorf("%w: code %d at index %d", ErrInvalidEventCode, c, i)
		}
	}
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: weight %g at index %d", ErrNegativeWeight, w, i)
		}
	}
	return nil
}

// grouped holds the per-distinct-time weighted counts, sorted ascending.
type grouped struct {
	time   []float64
	count0 []float64
	count1 []float64
	count2 []float64
}

// aggregate partitions the observations by distinct time and accumulates the
// weighted count per event code within each partition. Partitions are
// independent, so they fan out across goroutines when the estimator was
// configured with parallelism and the input is large enough to benefit.
func (e *Estimator) aggregate(ctx context.Context, times []float64, eventCodes []int, weights []float64) (*grouped, error) {
	n := len(times)

	// Sort observation indices by time; ties keep ascending input index so
	// accumulation order is reproducible.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ta, tb := times[order[a]], times[order[b]]
		if ta != tb {
			return ta < tb
		}
		return order[a] < order[b]
	})

	// Partition boundaries: starts[p] is the first sorted position of the
	// p-th distinct time, starts[p+1] its end.
	starts := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		if i == 0 || times[order[i]] != times[order[i-1]] {
			starts = append(starts, i)
		}
	}
	starts = append(starts, n)
	distinct := len(starts) - 1

	g := &grouped{
		time:   make([]float64, distinct),
		count0: make([]float64, distinct),
		count1: make([]float64, distinct),
		count2: make([]float64, distinct),
	}

	fill := func(p int) {
		lo, hi := starts[p], starts[p+1]
		g.time[p] = times[order[lo]]
		for i := lo; i < hi; i++ {
			idx := order[i]
			switch eventCodes[idx] {
			case model.Censored:
				g.count0[p] += weights[idx]
			case model.EventOfInterest:
				g.count1[p] += weights[idx]
			case model.CompetingEvent:
				g.count2[p] += weights[idx]
			}
			// Other codes contribute to no count (permissive pass-through).
		}
	}

	if e.parallelism > 1 && distinct >= minPartitionsForFanout {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(e.parallelism)
		for p := 0; p < distinct; p++ {
			p := p
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				fill(p)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return g, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for p := 0; p < distinct; p++ {
		fill(p)
	}
	return g, nil
}

// derive runs the sequential column pipeline over the sorted distinct-time
// axis: risk set via reverse cumulative sum, hazards, survival via
// cumulative product, and cumulative incidence via cumulative sums.
func derive(g *grouped) []Row {
	n := len(g.time)

	eventsAtTime := make([]float64, n)
	for i := range eventsAtTime {
		eventsAtTime[i] = g.count0[i] + g.count1[i] + g.count2[i]
	}

	// A subject is at risk at t when its observed time is >= t, so the risk
	// set is the reverse cumulative sum, inclusive of the current row.
	atRisk := make([]float64, n)
	copy(atRisk, eventsAtTime)
	floats.Reverse(atRisk)
	floats.CumSum(atRisk, atRisk)
	floats.Reverse(atRisk)

	// Cause-specific hazards. A zero risk set yields NaN here and the NaN
	// propagates through every dependent column below.
	csh1 := make([]float64, n)
	csh2 := make([]float64, n)
	conditional := make([]float64, n)
	for i := 0; i < n; i++ {
		csh1[i] = g.count1[i] / atRisk[i]
		csh2[i] = g.count2[i] / atRisk[i]
		conditional[i] = 1 - csh1[i] - csh2[i]
	}

	overall := make([]float64, n)
	floats.CumProd(overall, conditional)

	// Shift with fill 1: S(0) = 1 before the first event time.
	previous := make([]float64, n)
	if n > 0 {
		previous[0] = 1
		copy(previous[1:], overall[:n-1])
	}

	tp1 := make([]float64, n)
	tp2 := make([]float64, n)
	for i := 0; i < n; i++ {
		tp1[i] = csh1[i] * previous[i]
		tp2[i] = csh2[i] * previous[i]
	}

	cif1 := make([]float64, n)
	cif2 := make([]float64, n)
	floats.CumSum(cif1, tp1)
	floats.CumSum(cif2, tp2)

	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Row{
			Time:                    g.time[i],
			Count0:                  g.count0[i],
			Count1:                  g.count1[i],
			Count2:                  g.count2[i],
			EventsAtTime:            eventsAtTime[i],
			AtRisk:                  atRisk[i],
			CSH1:                    csh1[i],
			CSH2:                    csh2[i],
			ConditionalSurvival:     conditional[i],
			OverallSurvival:         overall[i],
			PreviousOverallSurvival: previous[i],
			TransitionProb1:         tp1[i],
			TransitionProb2:         tp2[i],
			CIF1:                    cif1[i],
			CIF2:                    cif2[i],
		}
	}
	return rows
}
