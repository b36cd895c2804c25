package drive

import (
	"sync"
	"time"
)

// FolderCache memoizes remote folder ids. Entries carry a TTL so the memo
// cannot grow for the lifetime of the process.
type FolderCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type ttlEntry struct {
	value     string
	expiresAt time.Time
}

type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]ttlEntry
}

func NewTTLCache(ttl time.Duration) FolderCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]ttlEntry),
	}
}

func (c *ttlCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

func (c *ttlCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ttlEntry{value: value, expiresAt: now.Add(c.ttl)}
}
