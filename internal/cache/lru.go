// Package cache provides a bounded, thread-safe memo for values that are
// expensive to build, such as compiled response schemas.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo is an LRU cache that builds missing values on demand.
type Memo[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewMemo creates a memo holding at most maxItems values.
func NewMemo[K comparable, V any](maxItems int) (*Memo[K, V], error) {
	c, err := lru.New[K, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &Memo[K, V]{cache: c}, nil
}

// Get retrieves a value by key.
// Returns the value and true if found, the zero value and false otherwise.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	return m.cache.Get(key)
}

// Put adds or replaces a value.
func (m *Memo[K, V]) Put(key K, value V) {
	m.cache.Add(key, value)
}

// GetOrBuild returns the cached value for key, calling build and storing its
// result when the key is missing. Failed builds are not cached.
//
// Two goroutines missing the same key may both call build; the later Put wins.
func (m *Memo[K, V]) GetOrBuild(key K, build func() (V, error)) (V, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	m.cache.Add(key, v)
	return v, nil
}

// Len returns the current number of items in the memo.
func (m *Memo[K, V]) Len() int {
	return m.cache.Len()
}
