// Package cache holds the listing cache used to serve the public product,
// bill and storefront listings without hitting the database.
package cache

import (
	"context"
	"errors"
)

// Well-known listing keys
const (
	KeyProducts   = "products"
	KeyBills      = "bills"
	KeyStorefront = "storefront"
)

// ErrCacheClosed is returned by operations on a closed cache
var ErrCacheClosed = errors.New("cache closed")

// ListingCache stores pre-encoded listing payloads
type ListingCache interface {
	// Get returns the payload for key; ok is false on a miss
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Set stores payload for key with the cache's TTL
	Set(ctx context.Context, key string, payload []byte) error
	// Generation returns the invalidation counter of key
	Generation(ctx context.Context, key string) (uint64, error)
	// SetIfCurrent stores payload only while key is still at generation gen.
	// stored is false when an Invalidate happened in between.
	SetIfCurrent(ctx context.Context, key string, gen uint64, payload []byte) (stored bool, err error)
	// Invalidate drops the given keys and advances their generation
	Invalidate(ctx context.Context, keys ...string) error
	Close() error
}

// NopListingCache never stores anything
type NopListingCache struct{}

func (NopListingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopListingCache) Set(context.Context, string, []byte) error         { return nil }
func (NopListingCache) Invalidate(context.Context, ...string) error       { return nil }
func (NopListingCache) Close() error                                      { return nil }

func (NopListingCache) Generation(context.Context, string) (uint64, error) { return 0, nil }

func (NopListingCache) SetIfCurrent(context.Context, string, uint64, []byte) (bool, error) {
	return false, nil
}
