package cache

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// ReadThrough returns the cached value for key, or calls load and caches
// the JSON encoding of its result. Cache failures are logged and never
// fail the read. hit reports whether the value came from the cache.
//
// The key's generation is read before load. If a write invalidates key
// while load runs, the loaded value is returned but not cached.
func ReadThrough[T any](
	ctx context.Context,
	c ListingCache,
	key string,
	logger *zap.Logger,
	load func(context.Context) (T, error),
) (value T, hit bool, err error) {
	payload, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, true, nil
		}
		logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	gen, genErr := c.Generation(ctx, key)
	if genErr != nil {
		logger.Warn("listing cache generation read failed", zap.String("key", key), zap.Error(genErr))
	}

	value, err = load(ctx)
	if err != nil {
		return value, false, err
	}
	if genErr != nil {
		return value, false, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn("listing cache encode failed", zap.String("key", key), zap.Error(err))
		return value, false, nil
	}
	stored, err := c.SetIfCurrent(ctx, key, gen, encoded)
	if err != nil {
		logger.Warn("listing cache write failed", zap.String("key", key), zap.Error(err))
	} else if !stored {
		logger.Debug("listing changed during load, not caching", zap.String("key", key))
	}
	return value, false, nil
}

// InvalidateQuietly drops keys and logs, rather than returns, any failure.
// A failed invalidation only means readers may see data up to one TTL old.
func InvalidateQuietly(ctx context.Context, c ListingCache, logger *zap.Logger, keys ...string) {
	if err := c.Invalidate(ctx, keys...); err != nil {
		logger.Error("listing cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
