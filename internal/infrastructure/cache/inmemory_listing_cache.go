package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryListingCache implements ListingCache with a TTL map.
// Suitable for single-instance deployments and testing.
type InMemoryListingCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	gens      map[string]uint64
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryListingCache creates a cache and starts its cleanup goroutine
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	c := &InMemoryListingCache{
		entries:  make(map[string]entry),
		gens:     make(map[string]uint64),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get implements ListingCache
func (c *InMemoryListingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Set implements ListingCache
func (c *InMemoryListingCache) Set(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(key, payload)
	return nil
}

// Generation implements ListingCache
func (c *InMemoryListingCache) Generation(_ context.Context, key string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key], nil
}

// SetIfCurrent implements ListingCache
func (c *InMemoryListingCache) SetIfCurrent(_ context.Context, key string, gen uint64, payload []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		return false, nil
	}
	c.store(key, payload)
	return true, nil
}

func (c *InMemoryListingCache) store(key string, payload []byte) {
	c.entries[key] = entry{
		payload:   append([]byte(nil), payload...),
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate implements ListingCache
func (c *InMemoryListingCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryListingCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryListingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryListingCache) cleanupLoop() {
	defer c.wg.Done()

	interval := c.ttl
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryListingCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
