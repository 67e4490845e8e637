// Package weatherapi implements the weather.Provider interface against
// the Open-Meteo forecast and archive APIs.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/racedayai/planner/internal/domain/weather"
	"github.com/racedayai/planner/pkg/logger"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	defaultTimeout     = 3 * time.Second

	// Race-morning conditions are approximated by the midday hourly
	// reading of the race date.
	middayHour = 12

	// Historical estimates average the same calendar date over this
	// many preceding years.
	historicalYears = 2
)

// Client calls Open-Meteo with bounded timeouts.
type Client struct {
	forecastURL string
	archiveURL  string
	httpClient  *http.Client
	log         logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithForecastURL overrides the forecast endpoint.
func WithForecastURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.forecastURL = u
		}
	}
}

// WithArchiveURL overrides the archive endpoint.
func WithArchiveURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.archiveURL = u
		}
	}
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds an Open-Meteo client.
func New(opts ...Option) *Client {
	c := &Client{
		forecastURL: defaultForecastURL,
		archiveURL:  defaultArchiveURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         logger.Named("weatherapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// forecastResponse mirrors the hourly block of the forecast API.
type forecastResponse struct {
	Hourly struct {
		Time         []string  `json:"time"`
		Temperature  []float64 `json:"temperature_2m"`
		Humidity     []float64 `json:"relative_humidity_2m"`
		WindSpeedKph []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// archiveResponse mirrors the daily block of the archive API.
type archiveResponse struct {
	Daily struct {
		TempMeanC   []float64 `json:"temperature_2m_mean"`
		HumidityPct []float64 `json:"relative_humidity_2m_mean"`
		WindMaxKph  []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Forecast returns the midday hourly reading for the race date.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, date time.Time) (weather.Snapshot, error) {
	day := date.Format("2006-01-02")
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("start_date", day)
	q.Set("end_date", day)
	q.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")
	q.Set("timezone", "auto")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, q, &resp); err != nil {
		return weather.Snapshot{}, err
	}
	if len(resp.Hourly.Temperature) <= middayHour {
		return weather.Snapshot{}, fmt.Errorf("forecast for %s: %w", day, ErrNoData)
	}
	snap := weather.Snapshot{
		TemperatureC: resp.Hourly.Temperature[middayHour],
		Source:       weather.SourceForecast,
	}
	if len(resp.Hourly.Humidity) > middayHour {
		snap.HumidityPct = resp.Hourly.Humidity[middayHour]
	}
	if len(resp.Hourly.WindSpeedKph) > middayHour {
		snap.WindSpeedKph = resp.Hourly.WindSpeedKph[middayHour]
	}
	return snap, nil
}

// HistoricalAverage averages the same calendar date over the preceding
// two years of archive data.
func (c *Client) HistoricalAverage(ctx context.Context, lat, lon float64, date time.Time) (weather.Snapshot, error) {
	var sumTemp, sumHumidity, sumWind float64
	samples := 0

	for back := 1; back <= historicalYears; back++ {
		day := date.AddDate(-back, 0, 0).Format("2006-01-02")
		q := url.Values{}
		q.Set("latitude", fmt.Sprintf("%.4f", lat))
		q.Set("longitude", fmt.Sprintf("%.4f", lon))
		q.Set("start_date", day)
		q.Set("end_date", day)
		q.Set("daily", "temperature_2m_mean,relative_humidity_2m_mean,wind_speed_10m_max")
		q.Set("timezone", "auto")

		var resp archiveResponse
		if err := c.getJSON(ctx, c.archiveURL, q, &resp); err != nil {
			c.log.Warn(ctx, "archive year fetch failed",
				logger.String("date", day), logger.Error(err))
			continue
		}
		if len(resp.Daily.TempMeanC) == 0 {
			continue
		}
		sumTemp += resp.Daily.TempMeanC[0]
		if len(resp.Daily.HumidityPct) > 0 {
			sumHumidity += resp.Daily.HumidityPct[0]
		}
		if len(resp.Daily.WindMaxKph) > 0 {
			sumWind += resp.Daily.WindMaxKph[0]
		}
		samples++
	}

	if samples == 0 {
		return weather.Snapshot{}, ErrNoData
	}
	n := float64(samples)
	return weather.Snapshot{
		TemperatureC: sumTemp / n,
		HumidityPct:  sumHumidity / n,
		WindSpeedKph: sumWind / n,
		Source:       weather.SourceHistorical,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
