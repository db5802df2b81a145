package dynops

import "reflect"

// MapLike is a read-only, ordered view over map-shaped data: iteration yields
// key/value pairs in the order of the source they were built from, and point
// lookup is a pure function of key equality.
type MapLike[T any] interface {
	// Get returns the value associated with the serialized key.
	Get(key T) (T, bool)
	// GetString returns the value associated with the string key.
	GetString(key string) (T, bool)
	// Entries returns the pairs in source order. The slice must not be
	// modified by the caller.
	Entries() []MapEntry[T]
}

// CollectMapLike builds a MapLike from a pair sequence, preserving the
// sequence order. Two pairs sharing an equal key make the whole collection
// fail: silent overwrite would hide data loss from the caller.
func CollectMapLike[T any](ops Ops[T], entries []MapEntry[T]) Result[MapLike[T]] {
	m := &mapLike[T]{ops: ops, entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		if ck, ok := canonicalKey(ops, e.Key); ok {
			if _, dup := m.index[ck]; dup {
				return Errorf[MapLike[T]](CodeDuplicateKey, "error while building map: duplicate key %v", e.Key)
			}
			m.index[ck] = i
			continue
		}
		for _, j := range m.loose {
			if reflect.DeepEqual(entries[j].Key, e.Key) {
				return Errorf[MapLike[T]](CodeDuplicateKey, "error while building map: duplicate key %v", e.Key)
			}
		}
		m.loose = append(m.loose, i)
	}
	return Success[MapLike[T]](m)
}

type mapLike[T any] struct {
	ops     Ops[T]
	entries []MapEntry[T]
	index   map[string]int // canonical scalar key -> entry position
	loose   []int          // positions of entries whose key has no canonical form
}

// canonicalKey derives a comparable identity for scalar keys. The kind prefix
// keeps string and numeric keys from colliding.
func canonicalKey[T any](ops Ops[T], key T) (string, bool) {
	if s, ok := ops.GetStringValue(key).Get(); ok {
		return "s:" + s, true
	}
	if n, ok := ops.GetNumberValue(key).Get(); ok {
		return "n:" + n.String(), true
	}
	return "", false
}

func (m *mapLike[T]) Get(key T) (T, bool) {
	if ck, ok := canonicalKey(m.ops, key); ok {
		if i, ok := m.index[ck]; ok {
			return m.entries[i].Value, true
		}
		var zero T
		return zero, false
	}
	for _, j := range m.loose {
		if reflect.DeepEqual(m.entries[j].Key, key) {
			return m.entries[j].Value, true
		}
	}
	var zero T
	return zero, false
}

func (m *mapLike[T]) GetString(key string) (T, bool) {
	if i, ok := m.index["s:"+key]; ok {
		return m.entries[i].Value, true
	}
	var zero T
	return zero, false
}

func (m *mapLike[T]) Entries() []MapEntry[T] { return m.entries }
