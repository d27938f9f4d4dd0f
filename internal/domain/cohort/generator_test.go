package cohort_test

import (
	"context"
	"testing"

	"github.com/okian/riskset/internal/domain/cohort"
	"github.com/okian/riskset/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateShape(t *testing.T) {
	Convey("Given a generator with weight jitter", t, func() {
		gen := cohort.New(
			cohort.WithSize(2000),
			cohort.WithSeed(3),
			cohort.WithWeightJitter(0.25),
			cohort.WithWorkers(4),
		)

		Convey("When generating a cohort", func() {
			obs, err := gen.Generate(context.Background())
			So(err, ShouldBeNil)

			Convey("Then every observation should be well-formed", func() {
				So(len(obs), ShouldEqual, 2000)
				for _, o := range obs {
					So(o.SubjectID, ShouldNotBeEmpty)
					So(o.Time, ShouldBeGreaterThanOrEqualTo, 0)
					So(o.EventCode, ShouldBeBetweenOrEqual, model.Censored, model.CompetingEvent)
					So(o.Weight, ShouldBeBetweenOrEqual, 0.75, 1.25)
				}
			})

			Convey("And rounding should produce tied event times", func() {
				seen := make(map[float64]int)
				for _, o := range obs {
					seen[o.Time]++
				}
				So(len(seen), ShouldBeLessThan, len(obs))
			})
		})
	})
}

func TestGenerateDeterminism(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		mk := func() *cohort.Generator {
			return cohort.New(cohort.WithSize(500), cohort.WithSeed(42), cohort.WithWorkers(3))
		}

		a, err := mk().Generate(context.Background())
		So(err, ShouldBeNil)
		b, err := mk().Generate(context.Background())
		So(err, ShouldBeNil)

		Convey("Then times, codes, and weights should match index by index", func() {
			So(len(b), ShouldEqual, len(a))
			for i := range a {
				So(b[i].Time, ShouldEqual, a[i].Time)
				So(b[i].EventCode, ShouldEqual, a[i].EventCode)
				So(b[i].Weight, ShouldEqual, a[i].Weight)
			}
		})
	})

	Convey("Given two generators with different seeds", t, func() {
		a, err := cohort.New(cohort.WithSize(500), cohort.WithSeed(1)).Generate(context.Background())
		So(err, ShouldBeNil)
		b, err := cohort.New(cohort.WithSize(500), cohort.WithSeed(2)).Generate(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the draws should differ somewhere", func() {
			same := true
			for i := range a {
				if a[i].Time != b[i].Time {
					same = false
					break
				}
			}
			So(same, ShouldBeFalse)
		})
	})
}

func TestGenerateCauseMix(t *testing.T) {
	Convey("Given a generator with the competing cause disabled", t, func() {
		gen := cohort.New(
			cohort.WithSize(1000),
			cohort.WithSeed(5),
			cohort.WithRates(0.2, 0, 0.05),
		)

		obs, err := gen.Generate(context.Background())
		So(err, ShouldBeNil)

		Convey("Then no observation should carry the competing code", func() {
			for _, o := range obs {
				So(o.EventCode, ShouldNotEqual, model.CompetingEvent)
			}
		})
	})
}

func TestGenerateEdgeCases(t *testing.T) {
	Convey("Given a zero-size generator", t, func() {
		obs, err := cohort.New(cohort.WithSize(0)).Generate(context.Background())

		Convey("Then the cohort should be empty", func() {
			So(err, ShouldBeNil)
			So(obs, ShouldBeEmpty)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cohort.New(cohort.WithSize(100)).Generate(ctx)

		Convey("Then generation should stop with an error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
