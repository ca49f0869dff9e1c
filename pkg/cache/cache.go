package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations. Each instance owns one fixed TTL;
// values are stored serialized, so a cached entry cannot be mutated
// through a value handed back to a caller.
type Service interface {
	Set(ctx context.Context, key string, value interface{}) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	MGet(ctx context.Context, keys ...string) (map[string][]byte, error)
	TTL() time.Duration
	Close() error
}

// Clock returns the current time.
type Clock func() time.Time

// GetTyped reads key into a fresh T. ok is false on a miss.
func GetTyped[T any](ctx context.Context, c Service, key string) (T, bool, error) {
	var v T
	if err := c.Get(ctx, key, &v); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return v, false, nil
		}
		return v, false, err
	}
	return v, true, nil
}

// MGetTyped retrieves multiple keys and unmarshals to typed map.
// Missing or expired keys are absent from the result.
func MGetTyped[T any](ctx context.Context, c Service, keys ...string) (map[string]T, error) {
	if len(keys) == 0 {
		return make(map[string]T), nil
	}

	rawResults, err := c.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}

	typedResults := make(map[string]T, len(rawResults))
	for key, rawValue := range rawResults {
		var obj T
		if err := json.Unmarshal(rawValue, &obj); err != nil {
			continue // Skip invalid JSON
		}
		typedResults[key] = obj
	}

	return typedResults, nil
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case json.RawMessage:
		return append([]byte(nil), v...), nil
	default:
		return json.Marshal(value)
	}
}

func decode(data []byte, dest interface{}) error {
	switch d := dest.(type) {
	case *[]byte:
		*d = append([]byte(nil), data...)
		return nil
	case *json.RawMessage:
		*d = append(json.RawMessage(nil), data...)
		return nil
	default:
		return json.Unmarshal(data, dest)
	}
}
