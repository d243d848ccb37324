package parse

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 512

type cacheEntry struct {
	node Node
	err  error
}

// Cache memoises Parse by source text. Trees are immutable, so one cached tree
// can be handed to any number of engines. A Cache is safe for concurrent use;
// a nil *Cache parses without caching.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
}

// NewCache returns a cache holding at most size trees. size <= 0 selects
// DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Parse(src string) (Node, error) {
	if c == nil {
		return Parse(src)
	}
	if e, ok := c.entries.Get(src); ok {
		return e.node, e.err
	}
	n, err := Parse(src)
	c.entries.Add(src, cacheEntry{node: n, err: err})
	return n, err
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
