package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

type memoryPort struct {
	cache *freecache.Cache
}

// NewMemoryPort keeps the snapshot in a process-local freecache of cacheSize bytes.
// Entries never expire but may be evicted when the cache is full.
func NewMemoryPort(cacheSize int) Port {
	return &memoryPort{cache: freecache.NewCache(cacheSize)}
}

func (m *memoryPort) Load(_ context.Context, key string) (string, bool, error) {
	val, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (m *memoryPort) Save(_ context.Context, key, value string) error {
	if err := m.cache.Set([]byte(key), []byte(value), 0); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (m *memoryPort) Delete(_ context.Context, key string) error {
	m.cache.Del([]byte(key))
	return nil
}
