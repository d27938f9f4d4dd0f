package survival_test

import (
	"context"
	"testing"

	"github.com/okian/riskset/internal/domain/survival"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTableAccessors(t *testing.T) {
	Convey("Given an estimated table", t, func() {
		times := []float64{1, 2, 3, 4}
		codes := []int{1, 1, 2, 0}
		weights := []float64{1, 1, 1, 1}

		table, err := survival.Estimate(context.Background(), times, codes, weights)
		So(err, ShouldBeNil)

		Convey("When asking for an unknown cause", func() {
			_, err := table.CIF(3)

			Convey("Then it should fail with the sentinel", func() {
				So(err, ShouldWrap, survival.ErrUnknownCause)
			})
		})

		Convey("When mutating a returned row slice", func() {
			rows := table.Rows()
			rows[0].OverallSurvival = -42

			Convey("Then the table should be unaffected", func() {
				So(table.Row(0).OverallSurvival, ShouldNotEqual, -42)
			})
		})

		Convey("When mutating a returned column", func() {
			ts := table.Times()
			ts[0] = -1

			Convey("Then the table should be unaffected", func() {
				So(table.Row(0).Time, ShouldEqual, 1.0)
			})
		})
	})
}

func TestMedianSurvivalTime(t *testing.T) {
	Convey("Given a curve that crosses the median", t, func() {
		// S = [3/4, 1/2, 1/4, 1/4]
		times := []float64{1, 2, 3, 4}
		codes := []int{1, 1, 1, 0}
		weights := []float64{1, 1, 1, 1}

		table, err := survival.Estimate(context.Background(), times, codes, weights)
		So(err, ShouldBeNil)

		Convey("Then the median time should be the first crossing", func() {
			median, ok := table.MedianSurvivalTime()
			So(ok, ShouldBeTrue)
			So(median, ShouldEqual, 2.0)
		})
	})

	Convey("Given a mostly-censored cohort", t, func() {
		times := []float64{1, 2, 3, 4}
		codes := []int{1, 0, 0, 0}
		weights := []float64{1, 1, 1, 1}

		table, err := survival.Estimate(context.Background(), times, codes, weights)
		So(err, ShouldBeNil)

		Convey("Then the curve should never reach the median", func() {
			_, ok := table.MedianSurvivalTime()
			So(ok, ShouldBeFalse)
		})
	})
}
