package weather

import (
	"context"
	"time"

	"github.com/racedayai/planner/pkg/logger"
	"github.com/racedayai/planner/pkg/metrics"
)

// Provider fetches readings from an external weather service.
type Provider interface {
	// Forecast returns near-term forecast readings for the coordinates.
	Forecast(ctx context.Context, lat, lon float64, date time.Time) (Snapshot, error)
	// HistoricalAverage returns same-date-of-year readings averaged over
	// recent years.
	HistoricalAverage(ctx context.Context, lat, lon float64, date time.Time) (Snapshot, error)
}

// forecastHorizon is how far ahead the forecast tier is trusted.
const forecastHorizon = 16 * 24 * time.Hour

// Resolver falls through forecast, historical average, and the neutral
// default. It always returns a usable snapshot with an honest source tag.
type Resolver struct {
	provider Provider
	log      logger.Logger
	now      func() time.Time
}

// ResolverOption applies a configuration option to the Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets a custom logger.
func WithResolverLogger(log logger.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver. provider may be nil, in which case only
// the neutral default tier is available.
func NewResolver(provider Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider: provider,
		log:      logger.Named("weather-resolver"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best available snapshot for the race location and
// date. An explicit override short-circuits the chain.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64, date time.Time, override *Snapshot) Snapshot {
	if override != nil {
		snap := *override
		if snap.Source == "" {
			snap.Source = SourceForecast
		}
		metrics.RecordWeatherResolution(string(snap.Source))
		return snap
	}

	if r.provider != nil {
		if date.Sub(r.now()) <= forecastHorizon {
			snap, err := r.provider.Forecast(ctx, lat, lon, date)
			if err == nil {
				snap.Source = SourceForecast
				metrics.RecordWeatherResolution(string(SourceForecast))
				return snap
			}
			r.log.Warn(ctx, "forecast unavailable, trying historical average", logger.Error(err))
		}

		snap, err := r.provider.HistoricalAverage(ctx, lat, lon, date)
		if err == nil {
			snap.Source = SourceHistorical
			metrics.RecordWeatherResolution(string(SourceHistorical))
			return snap
		}
		r.log.Warn(ctx, "historical average unavailable, using neutral default", logger.Error(err))
	}

	metrics.RecordWeatherResolution(string(SourceDefault))
	return Neutral()
}
