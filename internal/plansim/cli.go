package plansim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/racedayai/planner/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "plansim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the plan simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Race Plan Simulation Tool
=========================

A concurrent tool for exercising the race plan generation pipeline end to end:
it submits randomized athlete profiles, polls until generation finishes, and
verifies the completed plan artifacts.

Usage:
  go run cmd/plansim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -plans int
        Number of plan requests to generate and submit (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -poll duration
        Status poll interval (default 250ms)
  -deadline duration
        Per-plan completion deadline (default 2m)
  -output string
        Output file for generated submissions (default: generated_plans_TIMESTAMP.json)
  -log string
        Log file for run output (default: plansim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Exercise with default settings
  go run cmd/plansim/main.go

  # Heavier run against a remote instance
  go run cmd/plansim/main.go -plans 2000 -workers 16 -url http://planner.internal:9090

  # Verbose run with a custom log file
  go run cmd/plansim/main.go -verbose -plans 500 -log my_run.log
`)
}
