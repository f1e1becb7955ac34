package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkmint/linkmint/internal/shortlink"
)

type memEntry struct {
	rec       shortlink.Record
	expiresAt time.Time
}

// MemoryCache is an in-process implementation of shortlink.CacheStore with
// per-entry TTL. It backs cache-less deployments and tests.
type MemoryCache struct {
	mu         sync.Mutex
	structured map[shortlink.Code]memEntry
	legacy     map[shortlink.Code]string
}

// NewMemoryCache creates a new in-memory cache store.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		structured: make(map[shortlink.Code]memEntry),
		legacy:     make(map[shortlink.Code]string),
	}
}

func (c *MemoryCache) GetStructured(_ context.Context, code shortlink.Code) (*shortlink.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.structured[code]
	if !ok {
		return nil, shortlink.ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.structured, code)

		return nil, shortlink.ErrCacheMiss
	}

	cp := entry.rec

	return &cp, nil
}

func (c *MemoryCache) GetLegacy(_ context.Context, code shortlink.Code) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.legacy[code]
	if !ok {
		return "", shortlink.ErrCacheMiss
	}

	return target, nil
}

func (c *MemoryCache) SetStructured(_ context.Context, code shortlink.Code, rec *shortlink.Record, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.structured[code] = memEntry{
		rec:       *rec,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (c *MemoryCache) DeleteLegacy(_ context.Context, code shortlink.Code) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.legacy, code)

	return nil
}

func (c *MemoryCache) UpdateField(_ context.Context, code shortlink.Code, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.structured[code]
	if !ok {
		return nil
	}

	switch field {
	case "last_accessed":
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			entry.rec.LastAccessed = t
		}
	case "status":
		entry.rec.Status = value
	}

	c.structured[code] = entry

	return nil
}

// SetLegacy writes an entry in the retired flat format. Only the old
// deployment wrote these; it exists to seed migration scenarios.
func (c *MemoryCache) SetLegacy(_ context.Context, code shortlink.Code, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.legacy[code] = target

	return nil
}

// Compile-time check.
var _ shortlink.CacheStore = (*MemoryCache)(nil)
