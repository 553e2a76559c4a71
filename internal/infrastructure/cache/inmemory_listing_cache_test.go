package cache

import (
	"context"
	"testing"
	"time"

	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInMemoryListingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Minute)
		defer c.Close()

		_, ok, err := c.Get(ctx, KeyProducts)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, KeyProducts, []byte(`[]`)))
		got, ok, err := c.Get(ctx, KeyProducts)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`[]`), got)
	})

	t.Run("stored payload is copied", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Minute)
		defer c.Close()

		buf := []byte(`[1]`)
		require.NoError(t, c.Set(ctx, KeyBills, buf))
		buf[1] = '2'

		got, _, _ := c.Get(ctx, KeyBills)
		assert.Equal(t, []byte(`[1]`), got)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Minute)
		defer c.Close()
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, KeyStorefront, []byte(`{}`)))
		now = now.Add(time.Minute)

		_, ok, _ := c.Get(ctx, KeyStorefront)
		assert.False(t, ok)

		c.cleanup()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalidate drops only named keys", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Minute)
		defer c.Close()

		require.NoError(t, c.Set(ctx, KeyProducts, []byte(`p`)))
		require.NoError(t, c.Set(ctx, KeyBills, []byte(`b`)))
		require.NoError(t, c.Set(ctx, KeyStorefront, []byte(`s`)))

		require.NoError(t, c.Invalidate(ctx, KeyProducts, KeyStorefront))

		_, ok, _ := c.Get(ctx, KeyProducts)
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, KeyStorefront)
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, KeyBills)
		assert.True(t, ok)
	})

	t.Run("invalidate advances the generation", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Minute)
		defer c.Close()

		gen, err := c.Generation(ctx, KeyProducts)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx, KeyProducts))

		stored, err := c.SetIfCurrent(ctx, KeyProducts, gen, []byte(`old`))
		require.NoError(t, err)
		assert.False(t, stored)
		_, ok, _ := c.Get(ctx, KeyProducts)
		assert.False(t, ok)

		gen, err = c.Generation(ctx, KeyProducts)
		require.NoError(t, err)
		stored, err = c.SetIfCurrent(ctx, KeyProducts, gen, []byte(`new`))
		require.NoError(t, err)
		assert.True(t, stored)
		got, ok, _ := c.Get(ctx, KeyProducts)
		assert.True(t, ok)
		assert.Equal(t, []byte(`new`), got)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryListingCache(time.Second)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}

func TestNewListingCache(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("zero ttl disables caching", func(t *testing.T) {
		c := NewListingCache(config.RedisConfig{}, logger)
		assert.IsType(t, NopListingCache{}, c)
	})

	t.Run("redis disabled uses memory", func(t *testing.T) {
		c := NewListingCache(config.RedisConfig{ListingTTL: time.Minute}, logger)
		defer c.Close()
		assert.IsType(t, &InMemoryListingCache{}, c)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		c := NewListingCache(config.RedisConfig{
			Enabled:    true,
			Host:       "127.0.0.1",
			Port:       1,
			ListingTTL: time.Minute,
		}, logger)
		defer c.Close()
		assert.IsType(t, &InMemoryListingCache{}, c)
	})
}
