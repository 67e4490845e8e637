package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/racedayai/planner/internal/plansim"
)

// Default configuration constants.
const (
	defaultNumPlans     = 200
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 250 * time.Millisecond
	defaultPollDeadline = 2 * time.Minute
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numPlans     = flag.Int("plans", defaultNumPlans, "Number of plan requests to generate and submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollInterval = flag.Duration("poll", defaultPollInterval, "Status poll interval")
		pollDeadline = flag.Duration("deadline", defaultPollDeadline, "Per-plan completion deadline")
		outputFile   = flag.String("output", "", "Output file for generated submissions (default: generated_plans_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for run output (default: plansim_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		plansim.ShowHelp()
		return
	}

	if err := plansim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &plansim.Config{
		BaseURL:      *baseURL,
		NumPlans:     *numPlans,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: *pollInterval,
		PollDeadline: *pollDeadline,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := plansim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		return
	}
}
