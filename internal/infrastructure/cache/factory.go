package cache

import (
	"github.com/aishop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewListingCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory one. A zero TTL disables caching.
func NewListingCache(cfg config.RedisConfig, logger *zap.Logger) ListingCache {
	if cfg.ListingTTL <= 0 {
		logger.Info("listing cache disabled")
		return NopListingCache{}
	}

	if cfg.Enabled {
		c, err := NewRedisListingCache(RedisConfig{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
			TTL:      cfg.ListingTTL,
		})
		if err == nil {
			logger.Info("using Redis listing cache", zap.String("addr", cfg.Addr()))
			return c
		}
		logger.Warn("Redis unavailable, falling back to in-memory listing cache", zap.Error(err))
	}

	return NewInMemoryListingCache(cfg.ListingTTL)
}
