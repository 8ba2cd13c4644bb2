package cache

import (
	"context"
	"encoding/json/v2"
	"errors"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
)

// Store wraps a Client with the read-through and invalidation policy.
// Cache failures never propagate to callers: a broken cache degrades
// the service to direct store reads, it does not take it down.
type Store struct {
	client Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewStore creates a Store writing entries with the given TTL.
func NewStore(client Client, ttl time.Duration, log *logger.Logger) *Store {
	return &Store{client: client, ttl: ttl, log: log}
}

// ReadThrough returns the cached value for key, or calls load, caches
// the result and returns it. Only successful loads are cached; a load
// error is returned to the caller and nothing is stored.
func ReadThrough[T any](ctx context.Context, s *Store, key string, load func(context.Context) (T, error)) (T, error) {
	var value T

	raw, err := s.client.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		// Corrupt entry. Drop it and fall through to the loader.
		s.log.Warn("dropping undecodable cache entry", "key", key)
		if err := s.client.Delete(ctx, key); err != nil {
			s.log.WithError(err).Warn("cache delete failed", "key", key)
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		s.log.WithError(err).Warn("cache read failed", "key", key)
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err != nil {
		s.log.WithError(err).Warn("cache encode failed", "key", key)
	} else if err := s.client.SetWithTTL(ctx, key, raw, s.ttl); err != nil {
		s.log.WithError(err).Warn("cache write failed", "key", key)
	}

	return value, nil
}

// Invalidate removes the given keys. Failures are logged and swallowed.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if err := s.client.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("cache invalidation failed", "keys", keys)
	}
}

// InvalidatePrefix removes every key beginning with prefix. Used to
// drop all cached list pages for one owner in a single sweep.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix string) {
	keys, err := s.client.ScanKeys(ctx, prefix)
	if err != nil {
		s.log.WithError(err).Warn("cache scan failed", "prefix", prefix)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("cache invalidation failed", "prefix", prefix)
	}
}
