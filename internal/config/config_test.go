package config

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		c := New()

		Convey("Then defaults should be populated", func() {
			So(c.LogLevel, ShouldEqual, "info")
			So(c.MetricsAddr, ShouldBeEmpty)
			So(c.Strict, ShouldBeFalse)
			So(c.Parallelism, ShouldEqual, runtime.NumCPU())
			So(c.Replicates, ShouldEqual, 4)
			So(c.CohortSize, ShouldEqual, 10_000)
			So(c.EventRate, ShouldBeGreaterThan, 0)
			So(c.WeightJitter, ShouldBeBetweenOrEqual, 0, 1)
		})
	})
}
