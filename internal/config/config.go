// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// JobQueueSize bounds the in-memory generation queue.
	JobQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of generation workers.
	WorkerCount int `koanf:"worker_count"`

	// RequestCacheSize bounds the request-id idempotency cache.
	RequestCacheSize int `koanf:"request_cache_size"`

	// StoreShardCount configures the number of shards in the plan store.
	StoreShardCount int `koanf:"store_shard_count"`

	// Weather service endpoints and per-call timeout.
	WeatherForecastURL string `koanf:"weather_forecast_url"`
	WeatherArchiveURL  string `koanf:"weather_archive_url"`
	WeatherTimeoutMS   int    `koanf:"weather_timeout_ms"`

	// Narrative collaborator. Empty URL disables the phase entirely.
	NarrativeURL       string `koanf:"narrative_url"`
	NarrativeTimeoutMS int    `koanf:"narrative_timeout_ms"`

	// Track-file object storage (MinIO / S3-compatible). Empty endpoint
	// selects the in-memory store.
	StorageEndpoint  string `koanf:"storage_endpoint"`
	StorageAccessKey string `koanf:"storage_access_key"`
	StorageSecretKey string `koanf:"storage_secret_key"`
	StorageBucket    string `koanf:"storage_bucket"`
	StorageUseSSL    bool   `koanf:"storage_use_ssl"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		JobQueueSize:       10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		RequestCacheSize:   100_000,
		StoreShardCount:    8,
		WeatherForecastURL: "https://api.open-meteo.com/v1/forecast",
		WeatherArchiveURL:  "https://archive-api.open-meteo.com/v1/archive",
		WeatherTimeoutMS:   3000,
		NarrativeURL:       "",
		NarrativeTimeoutMS: 10_000,
		StorageEndpoint:    "",
		StorageBucket:      "race-tracks",
	}
}
