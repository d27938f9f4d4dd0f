package app

import (
	"fmt"
	"math"

	"github.com/okian/riskset/internal/domain/survival"
)

// Verify checks the estimator's structural invariants on a result table:
// ascending times, probabilities within [0,1], survival plus both
// incidences summing to one, survival non-increasing, incidences
// non-decreasing. Rows with a zero risk set carry NaN columns and are
// skipped; they are a tolerated degenerate outcome, not a violation.
func Verify(table *survival.Table, tolerance float64) error {
	rows := table.Rows()

	prevTime := math.Inf(-1)
	for i, r := range rows {
		if r.Time <= prevTime {
			return fmt.Errorf("%w: times not strictly ascending at row %d", ErrVerificationFailed, i)
		}
		prevTime = r.Time

		if degenerate(r) {
			continue
		}

		for _, c := range []struct {
			name  string
			value float64
		}{
			{"overall_survival", r.OverallSurvival},
			{"cif_1", r.CIF1},
			{"cif_2", r.CIF2},
		} {
			if c.value < -tolerance || c.value > 1+tolerance {
				return fmt.Errorf("%w: %s=%g out of [0,1] at row %d", ErrVerificationFailed, c.name, c.value, i)
			}
		}

		if total := r.OverallSurvival + r.CIF1 + r.CIF2; math.Abs(total-1) > tolerance {
			return fmt.Errorf("%w: survival+cif_1+cif_2=%g at row %d", ErrVerificationFailed, total, i)
		}
	}

	for i := 1; i < len(rows); i++ {
		if degenerate(rows[i]) || degenerate(rows[i-1]) {
			continue
		}
		if rows[i].OverallSurvival > rows[i-1].OverallSurvival+tolerance {
			return fmt.Errorf("%w: overall_survival increases at row %d", ErrVerificationFailed, i)
		}
		if rows[i].CIF1 < rows[i-1].CIF1-tolerance {
			return fmt.Errorf("%w: cif_1 decreases at row %d", ErrVerificationFailed, i)
		}
		if rows[i].CIF2 < rows[i-1].CIF2-tolerance {
			return fmt.Errorf("%w: cif_2 decreases at row %d", ErrVerificationFailed, i)
		}
	}

	return nil
}

func degenerate(r survival.Row) bool {
	return math.IsNaN(r.OverallSurvival) || math.IsNaN(r.CIF1) || math.IsNaN(r.CIF2)
}
