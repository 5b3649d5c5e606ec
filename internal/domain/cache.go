package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores assembled results keyed by a request fingerprint.
type ResultCache interface {
	// Get retrieves a cached result or returns ErrCacheMiss.
	Get(ctx context.Context, key string) (*OptimizationResult, error)

	// Set stores a result for ttl.
	Set(ctx context.Context, key string, result *OptimizationResult, ttl time.Duration) error
}
