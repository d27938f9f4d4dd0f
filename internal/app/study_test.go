package app_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/riskset/internal/app"
	"github.com/okian/riskset/internal/domain/survival"
	"github.com/okian/riskset/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

func TestStudyRun(t *testing.T) {
	Convey("Given a small study", t, func() {
		study := app.New(
			app.WithCohortSize(300),
			app.WithSeed(9),
			app.WithReplicates(3),
			app.WithConcurrency(2),
			app.WithWeightJitter(0.2),
		)

		Convey("When running it", func() {
			err := study.Run(context.Background())

			Convey("Then every replicate should pass verification", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a strict study", t, func() {
		study := app.New(
			app.WithCohortSize(200),
			app.WithSeed(13),
			app.WithReplicates(2),
			app.WithStrictEstimation(),
			app.WithParallelism(4),
		)

		Convey("When running it", func() {
			// Generated cohorts only contain valid codes and non-negative
			// weights, so strict mode must not reject them.
			So(study.Run(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given an empty cohort study", t, func() {
		study := app.New(app.WithCohortSize(0), app.WithReplicates(1))

		Convey("When running it", func() {
			So(study.Run(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		study := app.New(app.WithCohortSize(100), app.WithReplicates(2))

		Convey("When running it", func() {
			So(study.Run(ctx), ShouldNotBeNil)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a well-formed estimate", t, func() {
		table, err := survival.Estimate(context.Background(),
			[]float64{1, 2, 3, 4}, []int{1, 2, 1, 0}, []float64{1, 1, 1, 1})
		So(err, ShouldBeNil)

		Convey("Then verification should pass", func() {
			So(app.Verify(table, 1e-9), ShouldBeNil)
		})
	})

	Convey("Given an estimate with a degenerate final row", t, func() {
		table, err := survival.Estimate(context.Background(),
			[]float64{1, 2}, []int{1, 1}, []float64{1, 0})
		So(err, ShouldBeNil)

		Convey("Then the NaN row should be tolerated", func() {
			So(app.Verify(table, 1e-9), ShouldBeNil)
		})
	})

	Convey("Given an empty estimate", t, func() {
		table, err := survival.Estimate(context.Background(), nil, nil, nil)
		So(err, ShouldBeNil)

		Convey("Then verification should pass trivially", func() {
			So(app.Verify(table, 1e-9), ShouldBeNil)
		})
	})
}
