package content

import "github.com/coocood/freecache"

const (
	listCacheExpireSeconds = 60
	megabyte               = 1024 * 1024
)

// ListCache keeps serialized public list responses for a short while, so
// repeated marketing-page loads skip the store. Entries are invalidated when
// an admin creates a document in the matching collection.
type ListCache struct {
	cache *freecache.Cache
}

func NewListCache() *ListCache {
	return &ListCache{
		cache: freecache.NewCache(10 * megabyte),
	}
}

func (c *ListCache) Get(collection string) ([]byte, bool) {
	payload, err := c.cache.Get([]byte(collection))
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *ListCache) Set(collection string, payload []byte) {
	// a failed set only means a cache miss later
	_ = c.cache.Set([]byte(collection), payload, listCacheExpireSeconds)
}

func (c *ListCache) Invalidate(collection string) {
	c.cache.Del([]byte(collection))
}
