package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrBackpressure means the job queue is full and the submission was
	// not accepted.
	ErrBackpressure = errors.New("generation queue full")
	// ErrPlanNotReady means the requested operation needs a completed
	// plan.
	ErrPlanNotReady = errors.New("plan not completed yet")
	// ErrNotStarted means the service has not been started.
	ErrNotStarted = errors.New("service not started")
)
