// Package storage provides read access to uploaded track files by key.
package storage

import (
	"context"
	"errors"
	"io"
)

// TrackStore reads and writes raw track-file bytes addressed by key.
type TrackStore interface {
	// Get streams the object. Callers must close the reader. Returns
	// ErrObjectNotFound for unknown keys.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put stores the object under key, replacing any existing content.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Sentinel kinds for track storage errors.
var (
	ErrObjectNotFound = errors.New("track object not found")
	ErrInvalidConfig  = errors.New("invalid storage config")
)
