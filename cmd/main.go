package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/racedayai/planner/internal/adapters/http/api"
	"github.com/racedayai/planner/internal/adapters/http/swagger"
	"github.com/racedayai/planner/internal/adapters/narrative"
	"github.com/racedayai/planner/internal/adapters/storage"
	"github.com/racedayai/planner/internal/adapters/weatherapi"
	service "github.com/racedayai/planner/internal/app"
	"github.com/racedayai/planner/internal/config"
	"github.com/racedayai/planner/pkg/logger"
	"github.com/racedayai/planner/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.JobQueueSize),
		service.WithRequestCacheSize(cfg.RequestCacheSize),
		service.WithStoreShardCount(cfg.StoreShardCount),
		service.WithWeatherProvider(weatherapi.New(
			weatherapi.WithForecastURL(cfg.WeatherForecastURL),
			weatherapi.WithArchiveURL(cfg.WeatherArchiveURL),
			weatherapi.WithTimeout(time.Duration(cfg.WeatherTimeoutMS)*time.Millisecond),
			weatherapi.WithLogger(log.Named("weather")),
		)),
		service.WithNarrative(narrative.New(cfg.NarrativeURL,
			narrative.WithTimeout(time.Duration(cfg.NarrativeTimeoutMS)*time.Millisecond))),
	}

	if cfg.StorageEndpoint != "" {
		store, err := storage.NewMinIOStore(ctx, storage.Config{
			Endpoint:  cfg.StorageEndpoint,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
			UseSSL:    cfg.StorageUseSSL,
		})
		if err != nil {
			os.Stderr.WriteString("failed to connect track storage: " + err.Error() + "\n")
			return
		}
		opts = append(opts, service.WithTrackStore(store))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater refreshes service-level gauges on a fixed cadence.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.GetStats()
			if queueLen, ok := stats["queueLength"].(int); ok {
				metrics.UpdateQueueSize(queueLen)
			}
			if tracked, ok := stats["plansTracked"].(int); ok {
				metrics.UpdatePlansTracked(tracked)
			}
			if workerCount, ok := stats["workerCount"].(int); ok {
				metrics.UpdateWorkerCount(workerCount)
			}
		}
	}
}
