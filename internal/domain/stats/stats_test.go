package stats_test

import (
	"testing"

	"github.com/racedayai/planner/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given a predicted time at the cohort median", t, func() {
		ctx := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "M_35-39"})

		So(ctx.Available, ShouldBeTrue)
		So(ctx.CohortKey, ShouldEqual, "M_35-39")
		So(ctx.CohortSize, ShouldBeGreaterThan, 0)

		Convey("The percentile lands at the distribution midpoint", func() {
			So(ctx.Percentile, ShouldAlmostEqual, 50.0, 0.5)
		})

		Convey("The confidence interval is ordered", func() {
			So(ctx.CI.P10Sec, ShouldBeLessThanOrEqualTo, ctx.CI.P50Sec)
			So(ctx.CI.P50Sec, ShouldBeLessThanOrEqualTo, ctx.CI.P90Sec)
			So(ctx.CI.P50Sec, ShouldEqual, 20100)
		})

		Convey("The split recommendation sums to 100", func() {
			sum := ctx.Splits.SwimPct + ctx.Splits.BikePct + ctx.Splits.RunPct
			So(sum, ShouldAlmostEqual, 100.0, 0.1)
			So(ctx.Splits.Band, ShouldNotBeEmpty)
		})
	})

	Convey("Percentile grows monotonically with predicted time", t, func() {
		fast := stats.Build(stats.Request{PredictedTotalSec: 16000, CohortKey: "M_35-39"})
		slow := stats.Build(stats.Request{PredictedTotalSec: 25000, CohortKey: "M_35-39"})
		So(fast.Percentile, ShouldBeLessThan, slow.Percentile)
		So(fast.Percentile, ShouldBeGreaterThan, 0)
		So(slow.Percentile, ShouldBeLessThan, 100)

		Convey("Fast finishers get the front-pack split band", func() {
			So(fast.Splits.Band, ShouldEqual, "top_10pct")
		})
	})

	Convey("Given a missing cohort", t, func() {
		ctx := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "X_99-00"})

		Convey("Nothing is fabricated", func() {
			So(ctx.Available, ShouldBeFalse)
			So(ctx.Percentile, ShouldEqual, 0)
			So(ctx.CI.P50Sec, ShouldEqual, 0)
		})
	})

	Convey("Given an empty cohort key or invalid time", t, func() {
		So(stats.Build(stats.Request{PredictedTotalSec: 20100}).Available, ShouldBeFalse)
		So(stats.Build(stats.Request{PredictedTotalSec: -5, CohortKey: "M_35-39"}).Available, ShouldBeFalse)
	})

	Convey("Given a race with historical course data", t, func() {
		neutral := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "M_35-39"})
		hard := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "M_35-39", RaceID: "im703-boulder"})

		Convey("A slow venue improves the normalized placement", func() {
			So(hard.CourseFactor, ShouldBeGreaterThan, 1)
			So(hard.Percentile, ShouldBeLessThan, neutral.Percentile)
			So(hard.CourseDifficulty, ShouldEqual, "hard")
		})

		Convey("An unknown venue leaves the placement untouched", func() {
			unknown := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "M_35-39", RaceID: "im703-atlantis"})
			So(unknown.CourseFactor, ShouldEqual, 0)
			So(unknown.Percentile, ShouldEqual, neutral.Percentile)
		})
	})

	Convey("Given a race year past the dataset reference year", t, func() {
		ctx := stats.Build(stats.Request{PredictedTotalSec: 20100, CohortKey: "M_35-39", RaceYear: 2026})

		Convey("The yearly drift is extrapolated", func() {
			So(ctx.TrendAdjustmentSec, ShouldAlmostEqual, -114.0, 0.001)
		})
	})
}
