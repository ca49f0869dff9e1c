package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	writtenAt time.Time
	lastUsed  uint64
}

// MemoryCache implements Service using in-memory storage.
// Entries expire lazily on read once now-writtenAt >= TTL. When MaxSize is
// set, the least recently used entry is evicted to make room.
type MemoryCache struct {
	data    map[string]*memoryItem
	mutex   sync.Mutex
	ttl     time.Duration
	maxSize int
	now     Clock
	tick    uint64
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		TTL:     60 * time.Second,
		MaxSize: 10000,
		Clock:   time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:    make(map[string]*memoryItem),
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
		now:     cfg.Clock,
	}
}

func (mc *MemoryCache) TTL() time.Duration { return mc.ttl }

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if _, exists := mc.data[key]; !exists && mc.maxSize > 0 && len(mc.data) >= mc.maxSize {
		mc.evictLRU()
	}

	mc.tick++
	mc.data[key] = &memoryItem{
		data:      data,
		writtenAt: mc.now(),
		lastUsed:  mc.tick,
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	item, ok := mc.lookup(key)
	mc.mutex.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return decode(item.data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) MGet(_ context.Context, keys ...string) (map[string][]byte, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	results := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if item, ok := mc.lookup(key); ok {
			results[key] = append([]byte(nil), item.data...)
		}
	}
	return results, nil
}

// Len reports the number of stored entries, expired ones included.
func (mc *MemoryCache) Len() int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return len(mc.data)
}

func (mc *MemoryCache) Close() error { return nil }

// lookup must be called with the mutex held.
func (mc *MemoryCache) lookup(key string) (*memoryItem, bool) {
	item, exists := mc.data[key]
	if !exists {
		return nil, false
	}
	if mc.now().Sub(item.writtenAt) >= mc.ttl {
		delete(mc.data, key)
		return nil, false
	}
	mc.tick++
	item.lastUsed = mc.tick
	return item, true
}

func (mc *MemoryCache) evictLRU() {
	var oldestKey string
	var oldest uint64
	for key, item := range mc.data {
		if oldestKey == "" || item.lastUsed < oldest {
			oldest = item.lastUsed
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}
