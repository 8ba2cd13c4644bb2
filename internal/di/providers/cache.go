package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/cache"
	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
)

// CacheClientHandle wraps the cache client with shutdown capability.
type CacheClientHandle struct {
	cache.Client
}

// Shutdown implements do.Shutdownable.
func (h *CacheClientHandle) Shutdown() error {
	return h.Close()
}

// ProvideCacheClient provides the raw cache key/value client.
// Redis in production deployments, an in-process map otherwise.
func ProvideCacheClient(i do.Injector) (*CacheClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Cache.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		client, err := cache.NewRedisClient(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			return nil, err
		}
		log.Info("Redis cache connected", "addr", cfg.Cache.Addr)
		return &CacheClientHandle{Client: client}, nil
	}

	log.Info("Using in-memory cache")
	return &CacheClientHandle{Client: cache.NewMemoryClient()}, nil
}

// ProvideCacheStore provides the read-through caching layer for books.
func ProvideCacheStore(i do.Injector) (*cache.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*CacheClientHandle](i)

	return cache.NewStore(client, cfg.Cache.TTL, log), nil
}
