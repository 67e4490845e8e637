package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/racedayai/planner/internal/domain/weather"
	"github.com/racedayai/planner/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCombinedImpact(t *testing.T) {
	Convey("Given the binned impact model", t, func() {
		Convey("Baseline conditions have zero impact", func() {
			snap := weather.Snapshot{TemperatureC: 22, HumidityPct: 40, WindSpeedKph: 5}
			So(weather.CombinedImpactPct(snap), ShouldEqual, 0)
		})

		Convey("Cool weather is slightly faster", func() {
			snap := weather.Snapshot{TemperatureC: 12, HumidityPct: 40, WindSpeedKph: 5}
			So(weather.CombinedImpactPct(snap), ShouldEqual, -1.5)
		})

		Convey("Impacts are additive across conditions", func() {
			snap := weather.Snapshot{TemperatureC: 27, HumidityPct: 60, WindSpeedKph: 20}
			// 2.5 + 0.5 + 1.5
			So(weather.CombinedImpactPct(snap), ShouldEqual, 4.5)
		})

		Convey("Hot, windy and humid clamps at the ceiling", func() {
			snap := weather.Snapshot{TemperatureC: 32, HumidityPct: 80, WindSpeedKph: 35}
			So(weather.CombinedImpactPct(snap), ShouldEqual, 10)
		})

		Convey("Absurd extremes stay inside the clamp band", func() {
			hot := weather.Snapshot{TemperatureC: 55, HumidityPct: 100, WindSpeedKph: 120}
			cold := weather.Snapshot{TemperatureC: -25, HumidityPct: 0, WindSpeedKph: 0}
			So(weather.CombinedImpactPct(hot), ShouldBeLessThanOrEqualTo, 10)
			So(weather.CombinedImpactPct(cold), ShouldBeGreaterThanOrEqualTo, -5)
		})
	})
}

func TestHeatRisk(t *testing.T) {
	Convey("Given the heat-risk classifier", t, func() {
		Convey("Mild conditions are low risk", func() {
			So(weather.HeatRisk(weather.Snapshot{TemperatureC: 18, HumidityPct: 50}), ShouldEqual, weather.RiskLow)
		})

		Convey("Warm humid conditions are moderate", func() {
			So(weather.HeatRisk(weather.Snapshot{TemperatureC: 25, HumidityPct: 70}), ShouldEqual, weather.RiskModerate)
		})

		Convey("Hot humid conditions are high", func() {
			So(weather.HeatRisk(weather.Snapshot{TemperatureC: 31, HumidityPct: 70}), ShouldEqual, weather.RiskHigh)
		})

		Convey("Extreme heat plus saturation is extreme", func() {
			So(weather.HeatRisk(weather.Snapshot{TemperatureC: 36, HumidityPct: 85}), ShouldEqual, weather.RiskExtreme)
		})

		Convey("The label is independent of the clamped percentage", func() {
			// Wind drives the percentage but not the heat label.
			windy := weather.Snapshot{TemperatureC: 18, HumidityPct: 40, WindSpeedKph: 45}
			So(weather.CombinedImpactPct(windy), ShouldBeGreaterThan, 0)
			So(weather.HeatRisk(windy), ShouldEqual, weather.RiskLow)
		})
	})
}

type stubProvider struct {
	forecast    *weather.Snapshot
	forecastErr error
	hist        *weather.Snapshot
	histErr     error
}

func (s *stubProvider) Forecast(context.Context, float64, float64, time.Time) (weather.Snapshot, error) {
	if s.forecastErr != nil {
		return weather.Snapshot{}, s.forecastErr
	}
	return *s.forecast, nil
}

func (s *stubProvider) HistoricalAverage(context.Context, float64, float64, time.Time) (weather.Snapshot, error) {
	if s.histErr != nil {
		return weather.Snapshot{}, s.histErr
	}
	return *s.hist, nil
}

func TestResolver(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := weather.WithClock(func() time.Time { return now })

	Convey("Given a resolver with a healthy provider", t, func() {
		p := &stubProvider{
			forecast: &weather.Snapshot{TemperatureC: 24, HumidityPct: 55, WindSpeedKph: 10},
			hist:     &weather.Snapshot{TemperatureC: 21, HumidityPct: 60, WindSpeedKph: 8},
		}
		r := weather.NewResolver(p, clock)

		Convey("Near-term dates use the forecast tier", func() {
			snap := r.Resolve(ctx, 47.3, 12.8, now.Add(5*24*time.Hour), nil)
			So(snap.Source, ShouldEqual, weather.SourceForecast)
			So(snap.TemperatureC, ShouldEqual, 24)
		})

		Convey("Far-future dates use the historical tier", func() {
			snap := r.Resolve(ctx, 47.3, 12.8, now.Add(90*24*time.Hour), nil)
			So(snap.Source, ShouldEqual, weather.SourceHistorical)
			So(snap.TemperatureC, ShouldEqual, 21)
		})

		Convey("An explicit override bypasses the chain", func() {
			override := &weather.Snapshot{TemperatureC: 33, HumidityPct: 80, WindSpeedKph: 20}
			snap := r.Resolve(ctx, 47.3, 12.8, now, override)
			So(snap.TemperatureC, ShouldEqual, 33)
			So(snap.Source, ShouldEqual, weather.SourceForecast)
		})
	})

	Convey("Given a provider that fails tier by tier", t, func() {
		Convey("Forecast failure falls through to historical", func() {
			p := &stubProvider{
				forecastErr: errors.New("api down"),
				hist:        &weather.Snapshot{TemperatureC: 19, HumidityPct: 65, WindSpeedKph: 12},
			}
			r := weather.NewResolver(p, clock)
			snap := r.Resolve(ctx, 47.3, 12.8, now.Add(24*time.Hour), nil)
			So(snap.Source, ShouldEqual, weather.SourceHistorical)
		})

		Convey("Total failure returns the neutral default", func() {
			p := &stubProvider{forecastErr: errors.New("down"), histErr: errors.New("down")}
			r := weather.NewResolver(p, clock)
			snap := r.Resolve(ctx, 47.3, 12.8, now, nil)
			So(snap, ShouldResemble, weather.Neutral())
		})

		Convey("A nil provider still yields the neutral default", func() {
			r := weather.NewResolver(nil, clock)
			snap := r.Resolve(ctx, 0, 0, now, nil)
			So(snap.Source, ShouldEqual, weather.SourceDefault)
			So(snap.TemperatureC, ShouldEqual, 20)
		})
	})
}
