package core

import "iter"

// orderedMap is a first-write-wins map that remembers insertion order.
// Iteration order is part of the resolution contract (the substring
// fallback returns the first match), so it must not depend on Go map order.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any](capacity int) *orderedMap[K, V] {
	return &orderedMap[K, V]{
		keys:   make([]K, 0, capacity),
		values: make(map[K]V, capacity),
	}
}

// setIfAbsent stores value under key unless the key is already present.
// It reports whether the value was stored.
func (m *orderedMap[K, V]) setIfAbsent(key K, value V) bool {
	if _, exists := m.values[key]; exists {
		return false
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return true
}

func (m *orderedMap[K, V]) get(key K) (V, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

// all yields entries in insertion order.
func (m *orderedMap[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}
