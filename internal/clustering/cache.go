package clustering

import (
	"sync"
	"time"
)

type cacheKey struct {
	projectID         int64
	audienceProfileID int64
	category          string
}

type cacheEntry struct {
	preview Preview
	expires time.Time
}

// previewCache holds oracle previews for a short time. A zero ttl disables it.
type previewCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
}

func newPreviewCache(ttl time.Duration) *previewCache {
	return &previewCache{ttl: ttl, entries: make(map[cacheKey]cacheEntry)}
}

func (c *previewCache) get(key cacheKey, now time.Time) (Preview, bool) {
	if c == nil || c.ttl <= 0 {
		return Preview{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return Preview{}, false
	}
	if !now.Before(entry.expires) {
		delete(c.entries, key)
		return Preview{}, false
	}
	return entry.preview, true
}

func (c *previewCache) put(key cacheKey, preview Preview, now time.Time) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{preview: preview, expires: now.Add(c.ttl)}
}

func (c *previewCache) invalidate(projectID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.projectID == projectID {
			delete(c.entries, k)
		}
	}
}
