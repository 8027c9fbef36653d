// Package cache provides the byte-oriented result caches shared by the matching engine,
// the keyword filter and the synonym resolver.
//
// Caches are constructed by the caller and injected; the package keeps no global state.
// Concurrent misses on the same key are not de-duplicated, so two callers may both compute
// a value and the last write wins.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Cache stores opaque values by key. Implementations must be safe for concurrent use.
// Errors from remote tiers are treated as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
}

// GetJSON reads and decodes a JSON value. A decode failure counts as a miss.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	data, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// SetJSON encodes v as JSON and stores it. Values that fail to encode are dropped.
func SetJSON(ctx context.Context, c Cache, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}

// HashKey returns the hex sha256 of parts joined by "|||".
func HashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|||")))
	return hex.EncodeToString(sum[:])
}

// Nop is a cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte)        {}
func (Nop) Delete(context.Context, string)             {}
