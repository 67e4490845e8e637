package weatherapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/racedayai/planner/internal/adapters/weatherapi"
	"github.com/racedayai/planner/internal/domain/weather"
	"github.com/racedayai/planner/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func hourlyPayload(tempAtNoon float64) map[string]any {
	hours := make([]string, 24)
	temps := make([]float64, 24)
	humidity := make([]float64, 24)
	wind := make([]float64, 24)
	for i := range hours {
		temps[i] = 10
		humidity[i] = 60
		wind[i] = 8
	}
	temps[12] = tempAtNoon
	humidity[12] = 55
	wind[12] = 14
	return map[string]any{"hourly": map[string]any{
		"time":                 hours,
		"temperature_2m":       temps,
		"relative_humidity_2m": humidity,
		"wind_speed_10m":       wind,
	}}
}

func TestForecast(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	raceDay := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)

	Convey("Given a forecast API with hourly data", t, func() {
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"start_date": r.URL.Query().Get("start_date"),
				"hourly":     r.URL.Query().Get("hourly"),
			}
			_ = json.NewEncoder(w).Encode(hourlyPayload(23.5))
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithForecastURL(srv.URL))
		snap, err := client.Forecast(ctx, 47.32, 12.79, raceDay)

		Convey("The midday reading comes back with the forecast source", func() {
			So(err, ShouldBeNil)
			So(snap.TemperatureC, ShouldEqual, 23.5)
			So(snap.HumidityPct, ShouldEqual, 55)
			So(snap.WindSpeedKph, ShouldEqual, 14)
			So(snap.Source, ShouldEqual, weather.SourceForecast)
		})

		Convey("The request asks for the race date's hourly variables", func() {
			So(gotQuery["start_date"], ShouldEqual, "2026-06-14")
			So(gotQuery["hourly"], ShouldContainSubstring, "temperature_2m")
		})
	})

	Convey("Given an upstream failure", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithForecastURL(srv.URL))
		_, err := client.Forecast(ctx, 0, 0, raceDay)

		Convey("The error wraps the upstream sentinel", func() {
			So(errors.Is(err, weatherapi.ErrUpstream), ShouldBeTrue)
		})
	})

	Convey("Given an empty hourly payload", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"hourly":{}}`))
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithForecastURL(srv.URL))
		_, err := client.Forecast(ctx, 0, 0, raceDay)
		So(errors.Is(err, weatherapi.ErrNoData), ShouldBeTrue)
	})
}

func TestHistoricalAverage(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	raceDay := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)

	Convey("Given two years of archive data", t, func() {
		temps := map[string]float64{"2025-06-14": 22, "2024-06-14": 26}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			day := r.URL.Query().Get("start_date")
			_ = json.NewEncoder(w).Encode(map[string]any{"daily": map[string]any{
				"temperature_2m_mean":       []float64{temps[day]},
				"relative_humidity_2m_mean": []float64{64},
				"wind_speed_10m_max":        []float64{18},
			}})
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithArchiveURL(srv.URL))
		snap, err := client.HistoricalAverage(ctx, 47.32, 12.79, raceDay)

		Convey("Same-date readings are averaged", func() {
			So(err, ShouldBeNil)
			So(snap.TemperatureC, ShouldEqual, 24)
			So(snap.HumidityPct, ShouldEqual, 64)
			So(snap.WindSpeedKph, ShouldEqual, 18)
			So(snap.Source, ShouldEqual, weather.SourceHistorical)
		})
	})

	Convey("Given one failing year", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("start_date") == "2025-06-14" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"daily": map[string]any{
				"temperature_2m_mean":       []float64{20},
				"relative_humidity_2m_mean": []float64{50},
				"wind_speed_10m_max":        []float64{10},
			}})
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithArchiveURL(srv.URL))
		snap, err := client.HistoricalAverage(ctx, 0, 0, raceDay)

		Convey("The remaining year still produces an estimate", func() {
			So(err, ShouldBeNil)
			So(snap.TemperatureC, ShouldEqual, 20)
		})
	})

	Convey("Given no archive data at all", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := weatherapi.New(weatherapi.WithArchiveURL(srv.URL))
		_, err := client.HistoricalAverage(ctx, 0, 0, raceDay)
		So(errors.Is(err, weatherapi.ErrNoData), ShouldBeTrue)
	})
}
