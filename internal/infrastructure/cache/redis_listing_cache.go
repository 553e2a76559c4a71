package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "storefront:listing:"

// RedisListingCache implements ListingCache using Redis, so several server
// instances share one view of the listings.
type RedisListingCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisListingCache connects to Redis and verifies the connection
func NewRedisListingCache(cfg RedisConfig) (*RedisListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisListingCacheWithClient(client, "", cfg.TTL), nil
}

// NewRedisListingCacheWithClient wraps an existing client
func NewRedisListingCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisListingCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisListingCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get implements ListingCache
func (c *RedisListingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read listing %s: %w", key, err)
	}
	return payload, true, nil
}

// Set implements ListingCache
func (c *RedisListingCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store listing %s: %w", key, err)
	}
	return nil
}

// Generation implements ListingCache. A missing counter is generation 0.
func (c *RedisListingCache) Generation(ctx context.Context, key string) (uint64, error) {
	gen, err := c.client.Get(ctx, c.genKey(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation of %s: %w", key, err)
	}
	return gen, nil
}

// SetIfCurrent implements ListingCache. The generation counter is watched
// so an Invalidate racing the write aborts the transaction.
func (c *RedisListingCache) SetIfCurrent(ctx context.Context, key string, gen uint64, payload []byte) (bool, error) {
	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.genKey(key)).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.keyPrefix+key, payload, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey(key))

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to store listing %s: %w", key, err)
	}
	return stored, nil
}

// Invalidate implements ListingCache
func (c *RedisListingCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Del(ctx, c.keyPrefix+k)
			pipe.Incr(ctx, c.genKey(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate listings: %w", err)
	}
	return nil
}

func (c *RedisListingCache) genKey(key string) string {
	return c.keyPrefix + key + ":gen"
}

// Close closes the Redis client
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}
