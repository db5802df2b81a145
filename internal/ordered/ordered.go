// Package ordered provides an insertion-ordered string-keyed map. It backs
// the map representation of the any-tree adapters, where native Go maps would
// lose the entry order the algebra guarantees.
package ordered

import "reflect"

// Map preserves the order in which keys were first set. The zero value is not
// usable; call New.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty map.
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return len(m.keys) }

// Get returns the value for key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or replaces the value for key. A replaced key keeps its
// original position.
func (m *Map[V]) Set(key string, v V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes the entry for key, preserving the order of the rest.
func (m *Map[V]) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *Map[V]) Keys() []string { return m.keys }

// Clone returns a shallow copy sharing no structure with the receiver.
func (m *Map[V]) Clone() *Map[V] {
	out := &Map[V]{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]V, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Each calls fn for every entry in insertion order.
func (m *Map[V]) Each(fn func(key string, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Equal reports order-sensitive equality of keys and deep equality of values.
// It exists so comparison helpers (reflect.DeepEqual does this natively,
// go-cmp via the Equal-method convention) can see through the unexported
// fields.
func (m *Map[V]) Equal(o *Map[V]) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !reflect.DeepEqual(m.values[k], o.values[k]) {
			return false
		}
	}
	return true
}
