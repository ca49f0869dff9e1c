package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// LayeredCache implements two-level cache (L1: process memory, L2: shared).
type LayeredCache struct {
	l1 Service
	l2 Service
}

// NewLayeredCache creates a layered cache. L1 is usually a MemoryCache and
// L2 a RedisCache shared between instances.
func NewLayeredCache(l1, l2 Service) *LayeredCache {
	return &LayeredCache{l1: l1, l2: l2}
}

func (lc *LayeredCache) TTL() time.Duration { return lc.l2.TTL() }

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	// Write-through: shared layer first, then memory
	if err := lc.l2.Set(ctx, key, json.RawMessage(data)); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, json.RawMessage(data))
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.l1.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw json.RawMessage
	if err := lc.l2.Get(ctx, key, &raw); err != nil {
		return err
	}
	if err := decode(raw, dest); err != nil {
		return err
	}

	_ = lc.l1.Set(ctx, key, raw)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredCache) MGet(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out, err := lc.l1.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	missing := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := out[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	fromL2, err := lc.l2.MGet(ctx, missing...)
	if err != nil {
		return nil, err
	}
	for k, v := range fromL2 {
		out[k] = v
		_ = lc.l1.Set(ctx, k, json.RawMessage(v))
	}
	return out, nil
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	return errors.Join(lc.l1.Close(), lc.l2.Close())
}
