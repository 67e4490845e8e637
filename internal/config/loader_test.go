package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/racedayai/planner/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		os.Unsetenv("RACEDAY_CONFIG")
		os.Unsetenv("RACEDAY_ADDR")
		os.Unsetenv("RACEDAY_WORKER_COUNT")

		Convey("Load returns defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.JobQueueSize, ShouldEqual, 10_000)
			So(cfg.WeatherTimeoutMS, ShouldEqual, 3000)
			So(cfg.StorageBucket, ShouldEqual, "race-tracks")
		})

		Convey("Environment variables override defaults", func() {
			os.Setenv("RACEDAY_ADDR", ":7070")
			os.Setenv("RACEDAY_WORKER_COUNT", "3")
			defer os.Unsetenv("RACEDAY_ADDR")
			defer os.Unsetenv("RACEDAY_WORKER_COUNT")

			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.WorkerCount, ShouldEqual, 3)
		})

		Convey("A YAML file layers between defaults and env", func() {
			f, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
			So(err, ShouldBeNil)
			_, err = f.WriteString("addr: \":6060\"\nlog_level: debug\n")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			os.Setenv("RACEDAY_CONFIG", f.Name())
			defer os.Unsetenv("RACEDAY_CONFIG")

			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}
