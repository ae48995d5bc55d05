package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds one resolved copy of each reference collection for the
// session. Concurrent misses for the same key coalesce into a single fetch;
// a failed fetch leaves nothing behind, so the next call retries. There is
// no invalidation: a collection, once fetched, is treated as complete and
// stable until teardown.
type Cache struct {
	sf singleflight.Group

	mu   sync.RWMutex
	vals map[string]any
}

func NewCache() *Cache {
	return &Cache{vals: make(map[string]any)}
}

// Cached returns the resolved value for key, fetching it at most once no
// matter how many callers race on a cold key.
func Cached[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.RLock()
	v, ok := c.vals[key]
	c.mu.RUnlock()
	if ok {
		return v.([]T), nil
	}

	res, err, _ := c.sf.Do(key, func() (any, error) {
		// A loser of the singleflight race may arrive after the winner
		// already populated the key.
		c.mu.RLock()
		v, ok := c.vals[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		list, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.vals[key] = list
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]T), nil
}
