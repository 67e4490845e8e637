package logger_test

import (
	"context"
	"testing"

	"github.com/racedayai/planner/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(ctx, "info line", logger.String("k", "v"))
				l.Debug(ctx, "debug line", logger.Int("n", 1))
				l.Warn(ctx, "warn line", logger.Float64("f", 1.5))
				l.Error(ctx, "error line", logger.Bool("b", true))
			}, ShouldNotPanic)
		})

		Convey("Named returns a scoped child", func() {
			child := logger.Named("orchestrator")
			So(child, ShouldNotBeNil)
			So(func() { child.Info(ctx, "scoped") }, ShouldNotPanic)
		})

		Convey("SetLevelString accepts known levels", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("bogus"), ShouldNotBeNil)
		})
	})
}
