package plansim

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/racedayai/planner/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// HTTP status code constants.
const (
	StatusOK = 200
)

// Run executes the complete plan generation exercise.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting plan generation exercise",
		logger.String("baseURL", config.BaseURL),
		logger.Int("plans", config.NumPlans),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("pollDeadline", config.PollDeadline.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate submissions
	subs, err := generateSubmissions(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("submission generation failed: %w", err)
	}

	// Step 3: Submit concurrently
	planIDs, err := submitPlans(ctx, config, subs, stats)
	if err != nil {
		return fmt.Errorf("plan submission failed: %w", err)
	}

	// Step 4: Poll until plans reach a terminal state
	statuses, err := awaitPlans(ctx, config, planIDs, stats)
	if err != nil {
		return fmt.Errorf("status polling failed: %w", err)
	}

	// Step 5: Verify completed plan artifacts
	if err := verifyPlans(config, statuses, stats); err != nil {
		return fmt.Errorf("plan verification failed: %w", err)
	}

	// Step 6: Save submissions to file
	if err := saveSubmissionsToFile(ctx, config, subs); err != nil {
		logger.Get().Warn(ctx, "failed to save submissions to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "exercise completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSubmissionsToFile saves the generated submissions to a JSON file.
func saveSubmissionsToFile(ctx context.Context, config *Config, subs []Submission) error {
	if len(subs) == 0 {
		return fmt.Errorf("no submissions to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_plans_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(subs); err != nil {
		return fmt.Errorf("failed to encode submissions: %w", err)
	}

	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var completionRate, plansPerSecond float64

	if stats.PlansSubmitted > 0 {
		completionRate = float64(stats.PlansCompleted) / float64(stats.PlansSubmitted) * 100
	}

	if stats.Duration > 0 {
		plansPerSecond = float64(stats.PlansSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("plansGenerated", stats.PlansGenerated),
		logger.Int("plansSubmitted", stats.PlansSubmitted),
		logger.Int("plansAccepted", stats.PlansAccepted),
		logger.Int("plansDuplicate", stats.PlansDuplicate),
		logger.Int("plansRejected", stats.PlansRejected),
		logger.Int("plansCompleted", stats.PlansCompleted),
		logger.Int("plansFailed", stats.PlansFailed),
		logger.Int("plansTimedOut", stats.PlansTimedOut),
		logger.Int("plansVerified", stats.PlansVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("completionRate", completionRate),
		logger.Float64("plansPerSecond", plansPerSecond))
}
