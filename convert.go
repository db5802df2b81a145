package dynops

// Convert transcodes an entire value tree from one adapter's representation
// to another's by recursive re-interpretation. Neither adapter learns the
// other's concrete type: the target is erased to Ops[any] and every node is
// rebuilt through the public contract. Recursion depth equals input tree
// depth; trees are acyclic by construction, so conversion always terminates.
func Convert[T, U any](in Ops[T], out Ops[U], input T) U {
	return castTo[U](in.ConvertTo(Erase(out), input))
}

// ConvertList rebuilds a list-shaped input in the output adapter, converting
// every element recursively. Extraction failure degrades to an empty list
// rather than propagating: conversion is best-effort transcoding.
func ConvertList[T any](in Ops[T], out Ops[any], input T) any {
	elements, _ := in.GetStream(input).Get()
	converted := make([]any, 0, len(elements))
	for _, e := range elements {
		converted = append(converted, in.ConvertTo(out, e))
	}
	return out.CreateList(converted)
}

// ConvertMap rebuilds a map-shaped input in the output adapter, converting
// each key and each value independently (they may end up as different shapes
// in the output format). Extraction failure degrades to an empty map.
func ConvertMap[T any](in Ops[T], out Ops[any], input T) any {
	entries, _ := in.GetMapValues(input).Get()
	converted := make([]MapEntry[any], 0, len(entries))
	for _, e := range entries {
		converted = append(converted, MapEntry[any]{
			Key:   in.ConvertTo(out, e.Key),
			Value: in.ConvertTo(out, e.Value),
		})
	}
	return out.CreateMap(converted)
}

// Erase adapts an Ops[U] to Ops[any] so it can stand as a ConvertTo target.
// Adapters whose value type already is any pass through unwrapped.
func Erase[U any](ops Ops[U]) Ops[any] {
	if e, ok := any(ops).(Ops[any]); ok {
		return e
	}
	return erasedOps[U]{ops}
}

// castTo narrows an erased value back to U, mapping a nil interface to U's
// zero value (the Empty value of nil-rooted adapters).
func castTo[U any](v any) U {
	if v == nil {
		var zero U
		return zero
	}
	return v.(U)
}

// erasedOps forwards Ops[any] calls to a typed adapter, boxing and unboxing
// values at the boundary.
type erasedOps[U any] struct {
	ops Ops[U]
}

func (e erasedOps[U]) Empty() any                  { return e.ops.Empty() }
func (e erasedOps[U]) CreateNumeric(n Number) any  { return e.ops.CreateNumeric(n) }
func (e erasedOps[U]) CreateString(s string) any   { return e.ops.CreateString(s) }
func (e erasedOps[U]) CompressMaps() bool          { return e.ops.CompressMaps() }
func (e erasedOps[U]) Remove(v any, key string) any {
	return e.ops.Remove(castTo[U](v), key)
}

func (e erasedOps[U]) GetNumberValue(v any) Result[Number] {
	return e.ops.GetNumberValue(castTo[U](v))
}

func (e erasedOps[U]) GetStringValue(v any) Result[string] {
	return e.ops.GetStringValue(castTo[U](v))
}

func (e erasedOps[U]) CreateList(elements []any) any {
	typed := make([]U, len(elements))
	for i, el := range elements {
		typed[i] = castTo[U](el)
	}
	return e.ops.CreateList(typed)
}

func (e erasedOps[U]) GetStream(v any) Result[[]any] {
	return MapResult(e.ops.GetStream(castTo[U](v)), func(elements []U) []any {
		out := make([]any, len(elements))
		for i, el := range elements {
			out[i] = el
		}
		return out
	})
}

func (e erasedOps[U]) CreateMap(entries []MapEntry[any]) any {
	typed := make([]MapEntry[U], len(entries))
	for i, en := range entries {
		typed[i] = MapEntry[U]{Key: castTo[U](en.Key), Value: castTo[U](en.Value)}
	}
	return e.ops.CreateMap(typed)
}

func (e erasedOps[U]) GetMapValues(v any) Result[[]MapEntry[any]] {
	return MapResult(e.ops.GetMapValues(castTo[U](v)), func(entries []MapEntry[U]) []MapEntry[any] {
		out := make([]MapEntry[any], len(entries))
		for i, en := range entries {
			out[i] = MapEntry[any]{Key: en.Key, Value: en.Value}
		}
		return out
	})
}

func (e erasedOps[U]) MergeToList(list, value any) Result[any] {
	return widen(e.ops.MergeToList(castTo[U](list), castTo[U](value)))
}

func (e erasedOps[U]) MergeToMap(m, key, value any) Result[any] {
	return widen(e.ops.MergeToMap(castTo[U](m), castTo[U](key), castTo[U](value)))
}

func (e erasedOps[U]) ConvertTo(out Ops[any], input any) any {
	return e.ops.ConvertTo(out, castTo[U](input))
}

// The optional upgrade interfaces survive erasure: each forwarder hands off
// to the package-level helper, which re-probes the wrapped adapter and falls
// back to the generic path when the adapter has no native representation.

func (e erasedOps[U]) CreateBoolean(v bool) any { return CreateBoolean(e.ops, v) }

func (e erasedOps[U]) GetBooleanValue(input any) Result[bool] {
	return GetBooleanValue(e.ops, castTo[U](input))
}

func (e erasedOps[U]) CreateByteList(b []byte) any { return CreateByteList(e.ops, b) }

func (e erasedOps[U]) GetByteBuffer(input any) Result[[]byte] {
	return GetByteBuffer(e.ops, castTo[U](input))
}

func widen[U any](r Result[U]) Result[any] {
	return MapResult(r, func(v U) any { return v })
}
