package ai

import (
	"sync"
	"time"
)

type modelsCache struct {
	mu       sync.RWMutex
	models   []string
	cachedAt time.Time
	ttl      time.Duration
}

func newModelsCache(ttl time.Duration) *modelsCache {
	return &modelsCache{ttl: ttl}
}

func (c *modelsCache) Get() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.models == nil || time.Since(c.cachedAt) > c.ttl {
		return nil
	}
	return c.models
}

func (c *modelsCache) Set(models []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
	c.cachedAt = time.Now()
}
