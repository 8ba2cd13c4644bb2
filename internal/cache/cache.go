// Package cache provides the read-through caching layer for book data.
// Cached entries are plain JSON values keyed by the helpers in keys.go;
// a Store wraps a Client with the read-through and invalidation policy.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Client.Get when the key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// Client is the minimal key/value surface the caching layer needs.
// Backed by Redis in production and by an in-process map otherwise.
type Client interface {
	// Get returns the raw value for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores value under key, expiring after ttl.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// ScanKeys returns every key beginning with prefix.
	ScanKeys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the client.
	Close() error
}
