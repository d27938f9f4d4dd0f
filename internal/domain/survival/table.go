package survival

import (
	"fmt"
	"math"
)

// Row holds every derived column for one distinct event time. Field order
// follows the pipeline: weighted counts, risk set, hazards, survival,
// transition probabilities, cumulative incidence.
type Row struct {
	Time                    float64
	Count0                  float64 // weighted censored mass at this time
	Count1                  float64 // weighted event-of-interest mass
	Count2                  float64 // weighted competing-event mass
	EventsAtTime            float64
	AtRisk                  float64
	CSH1                    float64 // cause-specific hazard, cause 1
	CSH2                    float64 // cause-specific hazard, cause 2
	ConditionalSurvival     float64
	OverallSurvival         float64
	PreviousOverallSurvival float64
	TransitionProb1         float64
	TransitionProb2         float64
	CIF1                    float64
	CIF2                    float64
}

// Table is the immutable estimator result, one row per distinct event time,
// sorted ascending. Accessors return fresh slices; the table itself is never
// mutated after construction.
type Table struct {
	rows []Row
}

// Len returns the number of distinct event times.
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of all rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Times returns the distinct event times, ascending.
func (t *Table) Times() []float64 {
	return t.column(func(r Row) float64 { return r.Time })
}

// AtRisk returns the weighted risk-set size per row.
func (t *Table) AtRisk() []float64 {
	return t.column(func(r Row) float64 { return r.AtRisk })
}

// OverallSurvival returns the survival curve per row.
func (t *Table) OverallSurvival() []float64 {
	return t.column(func(r Row) float64 { return r.OverallSurvival })
}

// CIF returns the cumulative incidence curve for cause 1 or 2.
func (t *Table) CIF(cause int) ([]float64, error) {
	switch cause {
	case 1:
		return t.column(func(r Row) float64 { return r.CIF1 }), nil
	case 2:
		return t.column(func(r Row) float64 { return r.CIF2 }), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCause, cause)
	}
}

// MedianSurvivalTime returns the earliest time at which overall survival
// drops to 0.5 or below. The second return is false when the curve never
// crosses the median within the observed follow-up.
func (t *Table) MedianSurvivalTime() (float64, bool) {
	for _, r := range t.rows {
		if r.OverallSurvival <= 0.5 {
			return r.Time, true
		}
	}
	return 0, false
}

// countDegenerateRows counts rows whose risk set carries no mass; their
// hazard columns are NaN.
func (t *Table) countDegenerateRows() int {
	n := 0
	for _, r := range t.rows {
		if r.AtRisk == 0 || math.IsNaN(r.CSH1) || math.IsNaN(r.CSH2) {
			n++
		}
	}
	return n
}

func (t *Table) column(get func(Row) float64) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = get(r)
	}
	return out
}
