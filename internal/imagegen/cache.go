package imagegen

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds rendered OG images keyed by the inputs they were drawn from.
// Entries expire so a new day's baseline produces a fresh image.
type Cache struct {
	items *cache.Cache
}

// NewCache creates an image cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{items: cache.New(ttl, 2*ttl)}
}

// Get returns the cached image for key if still valid.
func (c *Cache) Get(key string) ([]byte, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set stores an image under key.
func (c *Cache) Set(key string, data []byte) {
	c.items.SetDefault(key, data)
}
