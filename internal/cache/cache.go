// Package cache provides a small generic LRU cache with TTL, used to
// memoize computed statistics reports. The engine itself is a pure function
// family; this cache is the only memoization layer and it is explicit,
// bounded and keyed by record-set fingerprint, never hidden mutable state.
package cache

import "time"

// Cache is the read/write contract the stats service depends on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// A no-op implementation for callers that want memoization off.
type Disabled[T any] struct{}

func (Disabled[T]) Get(string) (T, bool) {
	var zero T
	return zero, false
}

func (Disabled[T]) Set(string, T) {}

func (Disabled[T]) Delete(string) {}

func (Disabled[T]) Size() int { return 0 }

// DefaultTTL bounds how long a memoized report may outlive the records it
// was computed from.
const DefaultTTL = 5 * time.Minute
