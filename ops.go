package dynops

import (
	"fmt"
	"reflect"
)

// MapEntry is one key/value pair of a map-shaped value.
type MapEntry[T any] struct {
	Key   T
	Value T
}

// Ops is the adapter contract for one backing serialization format. T is the
// adapter's opaque, immutable value type: a primitive (number, string,
// boolean, opaque binary), a list of T, a map-shaped collection of T to T, or
// the adapter's distinguished Empty value.
//
// An adapter supplies exactly these primitives; every other operation of the
// algebra is derived from them by the package-level functions below and must
// not be reimplemented per format.
//
// Value trees are immutable: merge and remove operations return a new tree
// reusing unmodified substructure and never alter their input. Trees may be
// freely shared across goroutines for reads.
type Ops[T any] interface {
	// Empty returns the adapter's "no value" singleton. The returned value is
	// reference-stable: repeated calls yield the same value, and comparing
	// unrelated values against it is always legal and cheap.
	Empty() T

	// CreateNumeric serializes a numeric scalar.
	CreateNumeric(n Number) T
	// GetNumberValue parses or coerces a numeric scalar from the input.
	GetNumberValue(input T) Result[Number]

	// CreateString serializes a string scalar.
	CreateString(value string) T
	// GetStringValue extracts a string scalar from the input.
	GetStringValue(input T) Result[string]

	// CreateList serializes a sequence of values, preserving order.
	CreateList(elements []T) T
	// GetStream extracts the elements of a list-shaped input, in order.
	GetStream(input T) Result[[]T]

	// CreateMap serializes a sequence of key/value pairs, preserving order.
	// Keys must be convertible to string.
	CreateMap(entries []MapEntry[T]) T
	// GetMapValues extracts the entries of a map-shaped input, in order.
	GetMapValues(input T) Result[[]MapEntry[T]]

	// MergeToList returns a new list with value appended. It succeeds only
	// when list is list-shaped or Empty; the error carries the unmerged input
	// as its partial.
	MergeToList(list, value T) Result[T]
	// MergeToMap returns a new map with the key set to value. It succeeds
	// only when m is map-shaped or Empty and the key is convertible to
	// string; the error carries the unmerged input as its partial.
	MergeToMap(m, key, value T) Result[T]

	// Remove returns input without the entry for key. A non-map input, or a
	// map lacking the key, is returned unchanged.
	Remove(input T, key string) T

	// ConvertTo rebuilds input as an equivalent value of another adapter.
	// Only the owning adapter can classify input's shape, so each adapter
	// implements the dispatch itself, delegating list and map traversal to
	// ConvertList and ConvertMap. The target is type-erased; use the
	// package-level Convert for a typed entry point.
	ConvertTo(out Ops[any], input T) any

	// CompressMaps hints that the format gains from encoding map-shaped data
	// as an index-keyed list instead of a native map. The algebra never acts
	// on this itself; it only exposes the flag to higher-level encoders.
	CompressMaps() bool
}

// ByteListOps is an optional upgrade interface for adapters with a native
// byte-sequence representation. CreateByteList and GetByteBuffer probe for it
// before falling back to the generic element-wise path.
type ByteListOps[T any] interface {
	CreateByteList(b []byte) T
	GetByteBuffer(input T) Result[[]byte]
}

// BooleanOps is an optional upgrade interface for adapters with a native
// boolean representation. CreateBoolean and GetBooleanValue probe for it
// before falling back to the byte 1/0 encoding, so formats with real booleans
// keep them across conversion.
type BooleanOps[T any] interface {
	CreateBoolean(v bool) T
	GetBooleanValue(input T) Result[bool]
}

// EmptyList returns a fresh empty list, suitable as a MergeToList prefix.
func EmptyList[T any](ops Ops[T]) T { return ops.CreateList(nil) }

// EmptyMap returns a fresh empty map, suitable as a MergeToMap prefix.
func EmptyMap[T any](ops Ops[T]) T { return ops.CreateMap(nil) }

// isEmptyValue reports whether v is the adapter's Empty value. The comparison
// is cheap: Empty values are scalar- or pointer-typed, so values of
// uncomparable dynamic type can never be Empty.
func isEmptyValue[T any](ops Ops[T], v T) bool {
	ev, vv := any(ops.Empty()), any(v)
	if vv == nil {
		return ev == nil
	}
	if ev == nil {
		return false
	}
	t := reflect.TypeOf(vv)
	if !t.Comparable() || reflect.TypeOf(ev) != t {
		return false
	}
	return vv == ev
}

// Fixed-width numeric constructors, all expressed through CreateNumeric.

func CreateByte[T any](ops Ops[T], v int8) T      { return ops.CreateNumeric(IntNumber(int64(v))) }
func CreateShort[T any](ops Ops[T], v int16) T    { return ops.CreateNumeric(IntNumber(int64(v))) }
func CreateInt[T any](ops Ops[T], v int32) T      { return ops.CreateNumeric(IntNumber(int64(v))) }
func CreateLong[T any](ops Ops[T], v int64) T     { return ops.CreateNumeric(IntNumber(v)) }
func CreateFloat[T any](ops Ops[T], v float32) T  { return ops.CreateNumeric(FloatNumber(float64(v))) }
func CreateDouble[T any](ops Ops[T], v float64) T { return ops.CreateNumeric(FloatNumber(v)) }

// Fixed-width numeric extractors, all expressed through GetNumberValue.

func GetByteValue[T any](ops Ops[T], input T) Result[int8] {
	return MapResult(ops.GetNumberValue(input), Number.Byte)
}

func GetShortValue[T any](ops Ops[T], input T) Result[int16] {
	return MapResult(ops.GetNumberValue(input), Number.Short)
}

func GetIntValue[T any](ops Ops[T], input T) Result[int32] {
	return MapResult(ops.GetNumberValue(input), Number.Int)
}

func GetLongValue[T any](ops Ops[T], input T) Result[int64] {
	return MapResult(ops.GetNumberValue(input), Number.Long)
}

func GetFloatValue[T any](ops Ops[T], input T) Result[float32] {
	return MapResult(ops.GetNumberValue(input), Number.Float)
}

func GetDoubleValue[T any](ops Ops[T], input T) Result[float64] {
	return MapResult(ops.GetNumberValue(input), Number.Double)
}

// GetNumberValueOr returns the numeric scalar parsed from input, or def when
// no number could be parsed.
func GetNumberValueOr[T any](ops Ops[T], input T, def Number) Number {
	return ops.GetNumberValue(input).Or(def)
}

// CreateBoolean serializes a boolean, using the adapter's native boolean
// representation when it has one and byte 1 or 0 otherwise.
func CreateBoolean[T any](ops Ops[T], v bool) T {
	if b, ok := ops.(BooleanOps[T]); ok {
		return b.CreateBoolean(v)
	}
	if v {
		return CreateByte(ops, 1)
	}
	return CreateByte(ops, 0)
}

// GetBooleanValue decodes a boolean. Adapters with a native boolean read it
// directly; otherwise the byte view of the numeric value is tested against
// zero, matching the byte encoding of CreateBoolean.
func GetBooleanValue[T any](ops Ops[T], input T) Result[bool] {
	if b, ok := ops.(BooleanOps[T]); ok {
		return b.GetBooleanValue(input)
	}
	return MapResult(ops.GetNumberValue(input), func(n Number) bool { return n.Byte() != 0 })
}

// MergeToPrimitive merges value into an existing scalar prefix. This succeeds
// only when prefix is Empty; appending to a non-empty scalar is a merge
// conflict. The error carries value as its partial.
func MergeToPrimitive[T any](ops Ops[T], prefix, value T) Result[T] {
	if !isEmptyValue(ops, prefix) {
		return ErrorWithPartial(CodeMergeConflict,
			fmt.Sprintf("do not know how to append a primitive value %v to %v", value, prefix), value)
	}
	return Success(value)
}

// MergeSliceToList appends values to list left to right, short-circuiting on
// the first failing merge.
func MergeSliceToList[T any](ops Ops[T], list T, values []T) Result[T] {
	result := Success(list)
	for _, value := range values {
		result = FlatMap(result, func(r T) Result[T] { return ops.MergeToList(r, value) })
	}
	return result
}

// MergeEntriesToMap adds entries to m left to right, short-circuiting on the
// first failing merge.
func MergeEntriesToMap[T any](ops Ops[T], m T, entries []MapEntry[T]) Result[T] {
	result := Success(m)
	for _, e := range entries {
		result = FlatMap(result, func(r T) Result[T] { return ops.MergeToMap(r, e.Key, e.Value) })
	}
	return result
}

// MergeMapLike adds every entry of values to m, in view order.
func MergeMapLike[T any](ops Ops[T], m T, values MapLike[T]) Result[T] {
	return MergeEntriesToMap(ops, m, values.Entries())
}

// GetMap extracts the entries of a map-shaped input as an ordered, lookup-
// capable view. A duplicate key among the extracted entries is an error.
func GetMap[T any](ops Ops[T], input T) Result[MapLike[T]] {
	return FlatMap(ops.GetMapValues(input), func(entries []MapEntry[T]) Result[MapLike[T]] {
		return CollectMapLike(ops, entries)
	})
}

// Get extracts the value associated with key from a map-shaped input.
func Get[T any](ops Ops[T], input T, key string) Result[T] {
	return GetGeneric(ops, input, ops.CreateString(key))
}

// GetGeneric extracts the value associated with a serialized key from a
// map-shaped input, erroring when the key is absent.
func GetGeneric[T any](ops Ops[T], input, key T) Result[T] {
	return FlatMap(GetMap(ops, input), func(m MapLike[T]) Result[T] {
		if v, ok := m.Get(key); ok {
			return Success(v)
		}
		return Errorf[T](CodeMissingKey, "no element %v in the map %v", key, input)
	})
}

// Set returns input with key set to value.
//
// WARNING: unlike the strict primitives, Set swallows failure. If the merge
// would fail (for example, input is not a map) the original input is returned
// unchanged. This is deliberate API behavior, not a bug; callers that need
// failure visibility must use MergeToMap directly.
func Set[T any](ops Ops[T], input T, key string, value T) T {
	return ops.MergeToMap(input, ops.CreateString(key), value).Or(input)
}

// Update replaces the value for key with fn(existing). A map lacking the key,
// or a non-map input, is returned unchanged.
//
// WARNING: like Set, Update swallows failure by design; use Get and
// MergeToMap directly for strict behavior.
func Update[T any](ops Ops[T], input T, key string, fn func(T) T) T {
	r := MapResult(Get(ops, input, key), func(v T) T { return Set(ops, input, key, fn(v)) })
	return r.Or(input)
}

// UpdateGeneric is Update with a serialized key. It swallows failure the same
// way Set and Update do.
func UpdateGeneric[T any](ops Ops[T], input, key T, fn func(T) T) T {
	r := FlatMap(GetGeneric(ops, input, key), func(v T) Result[T] {
		return ops.MergeToMap(input, key, fn(v))
	})
	return r.Or(input)
}

// GetByteBuffer extracts a byte slice from a list-shaped input. Extraction is
// atomic: if any element does not parse as a number the whole call fails,
// naming the offending list. Adapters with a native byte representation are
// used directly via ByteListOps.
func GetByteBuffer[T any](ops Ops[T], input T) Result[[]byte] {
	if b, ok := ops.(ByteListOps[T]); ok {
		return b.GetByteBuffer(input)
	}
	return FlatMap(ops.GetStream(input), func(elements []T) Result[[]byte] {
		buf := make([]byte, len(elements))
		for i, e := range elements {
			n, ok := ops.GetNumberValue(e).Get()
			if !ok {
				return Errorf[[]byte](CodeCoercion, "some elements are not bytes: %v", input)
			}
			buf[i] = byte(n.Byte())
		}
		return Success(buf)
	})
}

// CreateByteList serializes a byte slice, using the adapter's native byte
// representation when it has one and a list of byte-valued numbers otherwise.
func CreateByteList[T any](ops Ops[T], b []byte) T {
	if bl, ok := ops.(ByteListOps[T]); ok {
		return bl.CreateByteList(b)
	}
	elements := make([]T, len(b))
	for i, v := range b {
		elements[i] = CreateByte(ops, int8(v))
	}
	return ops.CreateList(elements)
}

// GetIntStream extracts a list-shaped input whose elements are all int-valued
// numbers. Extraction fails atomically when any element does not coerce.
func GetIntStream[T any](ops Ops[T], input T) Result[[]int32] {
	return FlatMap(ops.GetStream(input), func(elements []T) Result[[]int32] {
		out := make([]int32, len(elements))
		for i, e := range elements {
			n, ok := ops.GetNumberValue(e).Get()
			if !ok {
				return Errorf[[]int32](CodeCoercion, "some elements are not ints: %v", input)
			}
			out[i] = n.Int()
		}
		return Success(out)
	})
}

// CreateIntList serializes ints element-wise through CreateInt.
func CreateIntList[T any](ops Ops[T], values []int32) T {
	elements := make([]T, len(values))
	for i, v := range values {
		elements[i] = CreateInt(ops, v)
	}
	return ops.CreateList(elements)
}

// GetLongStream extracts a list-shaped input whose elements are all
// long-valued numbers. Extraction fails atomically when any element does not
// coerce.
func GetLongStream[T any](ops Ops[T], input T) Result[[]int64] {
	return FlatMap(ops.GetStream(input), func(elements []T) Result[[]int64] {
		out := make([]int64, len(elements))
		for i, e := range elements {
			n, ok := ops.GetNumberValue(e).Get()
			if !ok {
				return Errorf[[]int64](CodeCoercion, "some elements are not longs: %v", input)
			}
			out[i] = n.Long()
		}
		return Success(out)
	})
}

// CreateLongList serializes longs element-wise through CreateLong.
func CreateLongList[T any](ops Ops[T], values []int64) T {
	elements := make([]T, len(values))
	for i, v := range values {
		elements[i] = CreateLong(ops, v)
	}
	return ops.CreateList(elements)
}

// ReadMap left-folds combine over the entries of a map-shaped input in
// encounter order, starting from empty and short-circuiting on the first
// failing step.
func ReadMap[T, R any](ops Ops[T], input T, empty Result[R], combine func(R, T, T) Result[R]) Result[R] {
	return FlatMap(ops.GetMapValues(input), func(entries []MapEntry[T]) Result[R] {
		result := empty
		for _, e := range entries {
			result = FlatMap(result, func(r R) Result[R] { return combine(r, e.Key, e.Value) })
		}
		return result
	})
}
