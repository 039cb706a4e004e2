package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryReportCache is a process-local ReportCache. Invalidation only reaches
// this process, so it suits a single instance deployment.
type MemoryReportCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	generation int64
	ttl        time.Duration
	now        func() time.Time
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// NewMemoryReportCache returns an empty cache. Non-positive ttl uses DefaultReportTTL.
func NewMemoryReportCache(ttl time.Duration) *MemoryReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &MemoryReportCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.raw, dest)
}

func (c *MemoryReportCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{raw: raw, expires: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every entry and advances the generation.
func (c *MemoryReportCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string]memoryEntry)
	return nil
}

func (c *MemoryReportCache) Key(_ context.Context, kind string, parts ...string) (string, error) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	return BuildKey("mem", gen, kind, parts...), nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
