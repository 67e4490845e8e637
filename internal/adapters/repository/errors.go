package repository

import "errors"

// Sentinel kinds for plan store errors.
var (
	ErrNotFound      = errors.New("plan not found")
	ErrAlreadyExists = errors.New("plan already exists")
	ErrNilPlan       = errors.New("nil plan")
)
