package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RACEDAY_CONFIG is set
//  3. env (prefix RACEDAY_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RACEDAY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RACEDAY_ADDR, RACEDAY_QUEUE_SIZE, ...
	// Underscores are preserved so keys match the koanf struct tags.
	envProvider := env.Provider("RACEDAY_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "raceday_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.JobQueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.StoreShardCount < 1:
		return fmt.Errorf("%w: store_shard_count must be positive", ErrInvalidConfig)
	case c.WeatherTimeoutMS < 1:
		return fmt.Errorf("%w: weather_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
