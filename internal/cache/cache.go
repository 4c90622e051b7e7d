// Package cache holds assembled view models as JSON, keyed per media
// item. Entries never expire; they stay valid until an explicit Clear.
// An optional backing store persists entries across restarts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/localstore"
)

// Prefix namespaces cache entries in the backing store, keeping Clear
// away from durable keys.
const Prefix = "showdeck-cache-"

// Cache is an in-memory JSON cache with optional write-through.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	backing localstore.Store
	logger  zerolog.Logger
}

// New creates a cache. backing may be nil for a purely in-memory cache.
func New(backing localstore.Store, logger zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		backing: backing,
		logger:  logger.With().Str("component", "cache").Logger(),
	}
}

// Get returns the raw entry for key, loading it from the backing store
// on a memory miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return data, true
	}

	if c.backing == nil {
		return nil, false
	}
	data, ok, err := c.backing.Get(ctx, Prefix+key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Backing store read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	c.entries[key] = data
	c.mu.Unlock()
	return data, true
}

// GetJSON decodes the entry for key into out. Returns false on a miss
// or an undecodable entry.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key, writing through to the backing store.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	c.mu.Lock()
	c.entries[key] = data
	c.mu.Unlock()

	if c.backing != nil {
		if err := c.backing.Set(ctx, Prefix+key, data); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Backing store write failed")
		}
	}
	return nil
}

// Delete removes one entry.
func (c *Cache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	if c.backing != nil {
		if err := c.backing.Delete(ctx, Prefix+key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Backing store delete failed")
		}
	}
}

// Clear removes every entry, in memory and in the backing store.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string][]byte)
	c.mu.Unlock()

	if c.backing != nil {
		if err := c.backing.DeletePrefix(ctx, Prefix); err != nil {
			return fmt.Errorf("failed to clear backing store: %w", err)
		}
	}
	return nil
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
