package dynops

import "fmt"

// ListBuilder accumulates a sequence of fallible element insertions and
// finalizes atomically. Add never fails synchronously, even after an earlier
// element has errored, so callers can keep composing; Build reports the first
// failure in insertion order.
//
// A builder is single-writer: build it up and consume it within one logical
// construction task, never share instances across goroutines.
type ListBuilder[T any] struct {
	ops      Ops[T]
	elements []Result[T]
}

// NewListBuilder returns a fresh list builder for the adapter.
func NewListBuilder[T any](ops Ops[T]) *ListBuilder[T] { return &ListBuilder[T]{ops: ops} }

// Add stages one pending element.
func (b *ListBuilder[T]) Add(element Result[T]) *ListBuilder[T] {
	b.elements = append(b.elements, element)
	return b
}

// AddValue stages one already-serialized element.
func (b *ListBuilder[T]) AddValue(value T) *ListBuilder[T] { return b.Add(Success(value)) }

// Build folds all staged elements against prefix with MergeToList, in staging
// order. The first errored element, or the first failing merge, fails the
// whole build; the returned error names the element position.
func (b *ListBuilder[T]) Build(prefix T) Result[T] {
	result := Success(prefix)
	for i, element := range b.elements {
		if is := element.Issue(); is != nil {
			return failed[T](&Issue{Code: is.Code, Message: fmt.Sprintf("list element %d: %s", i, is.Message)})
		}
		v, _ := element.Get()
		result = FlatMap(result, func(list T) Result[T] { return b.ops.MergeToList(list, v) })
		if result.IsError() {
			return result
		}
	}
	return result
}

// AddAll stages one element per item by applying encode to each.
func AddAll[T, E any](b *ListBuilder[T], items []E, encode func(E) Result[T]) *ListBuilder[T] {
	for _, item := range items {
		b.Add(encode(item))
	}
	return b
}

// RecordBuilder accumulates fallible key/value insertions and finalizes
// atomically. The protocol is identical to ListBuilder's; only the arity of
// an insertion differs.
type RecordBuilder[T any] struct {
	ops     Ops[T]
	entries []recordEntry[T]
}

type recordEntry[T any] struct {
	key   Result[T]
	value Result[T]
}

// NewMapBuilder returns a fresh record builder for the adapter.
func NewMapBuilder[T any](ops Ops[T]) *RecordBuilder[T] { return &RecordBuilder[T]{ops: ops} }

// Add stages one pending key/value pair.
func (b *RecordBuilder[T]) Add(key, value Result[T]) *RecordBuilder[T] {
	b.entries = append(b.entries, recordEntry[T]{key: key, value: value})
	return b
}

// AddEntry stages one already-serialized pair.
func (b *RecordBuilder[T]) AddEntry(key, value T) *RecordBuilder[T] {
	return b.Add(Success(key), Success(value))
}

// AddString stages a pair under a string key.
func (b *RecordBuilder[T]) AddString(key string, value Result[T]) *RecordBuilder[T] {
	return b.Add(Success(b.ops.CreateString(key)), value)
}

// Build folds all staged pairs against prefix with MergeToMap, in staging
// order, short-circuiting at the first errored key, errored value, or failing
// merge. The returned error names the key (or its position when the key
// itself failed to encode).
func (b *RecordBuilder[T]) Build(prefix T) Result[T] {
	result := Success(prefix)
	for i, e := range b.entries {
		if is := e.key.Issue(); is != nil {
			return failed[T](&Issue{Code: is.Code, Message: fmt.Sprintf("record key %d: %s", i, is.Message)})
		}
		k, _ := e.key.Get()
		if is := e.value.Issue(); is != nil {
			return failed[T](&Issue{Code: is.Code, Message: fmt.Sprintf("value for key %s: %s", describeKey(b.ops, k), is.Message)})
		}
		v, _ := e.value.Get()
		result = FlatMap(result, func(m T) Result[T] { return b.ops.MergeToMap(m, k, v) })
		if result.IsError() {
			return result
		}
	}
	return result
}

// AddAllEntries stages one pair per item by applying the encode functions to
// each.
func AddAllEntries[T, E any](b *RecordBuilder[T], items []E, encodeKey, encodeValue func(E) Result[T]) *RecordBuilder[T] {
	for _, item := range items {
		b.Add(encodeKey(item), encodeValue(item))
	}
	return b
}

func describeKey[T any](ops Ops[T], key T) string {
	if s, ok := ops.GetStringValue(key).Get(); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", key)
}
