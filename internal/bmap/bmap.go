// Package bmap implements map with string keys queried by []byte keys.
package bmap

import (
	"sort"
	"unsafe"
)

// BMap stores values by string keys and looks them up by []byte keys without copying.
// It is intended for a small fixed set of keys: keys cannot be deleted or overwritten.
type BMap[T any] struct {
	smap    map[string]T
	lengths []int
}

// New creates bytes map, size is a hint for the number of stored keys.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{smap: make(map[string]T, size)}
}

// Len returns the number of stored keys.
func (m *BMap[T]) Len() int {
	return len(m.smap)
}

// Add stores value for key unless the key is already present, returns false in that case.
func (m *BMap[T]) Add(key string, value T) bool {
	if _, has := m.smap[key]; has {
		return false
	}

	m.smap[key] = value
	i := sort.Search(len(m.lengths), func(i int) bool {
		return m.lengths[i] <= len(key)
	})
	if i == len(m.lengths) || m.lengths[i] != len(key) {
		m.lengths = append(m.lengths, 0)
		copy(m.lengths[i+1:], m.lengths[i:])
		m.lengths[i] = len(key)
	}
	return true
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
// Returns zero value if the key is not present.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	skey := ""
	if len(key) != 0 {
		skey = unsafe.String(&key[0], len(key))
	}
	result, has := m.smap[skey]
	return result, has
}

// Prefix returns value stored for the longest key that content starts with, and that key length.
func (m *BMap[T]) Prefix(content []byte) (T, int, bool) {
	for _, size := range m.lengths {
		if size > len(content) {
			continue
		}
		if result, has := m.Get(content[:size]); has {
			return result, size, true
		}
	}
	var zero T
	return zero, 0, false
}
