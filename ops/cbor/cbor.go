// Package cbor adapts a CBOR value tree to the dynops algebra using
// fxamacker/cbor. The tree node types match the JSON adapter's (nil, Number,
// bool, string, []any, *ordered.Map) plus []byte for CBOR byte strings, which
// back the native byte-list specialization.
//
// Encode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Same logical data
// always produces identical bytes.
package cbor

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	cborlib "github.com/fxamacker/cbor/v2"

	dynops "github.com/reoring/dynops"
	"github.com/reoring/dynops/internal/ordered"
)

var encMode cborlib.EncMode
var decMode cborlib.DecMode

func init() {
	var err error
	encMode, err = cborlib.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}
	decMode, err = cborlib.DecOptions{
		// Map-shaped values land in any-typed targets; the CBOR default of
		// map[interface{}]interface{} is incompatible with the string-keyed
		// tree model, so force map[string]any.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// Instance is the CBOR adapter. It is stateless; all callers share it.
var Instance dynops.Ops[any] = valueOps{}

type valueOps struct{}

func (valueOps) Empty() any { return nil }

func (valueOps) CreateNumeric(n dynops.Number) any { return n }

func (valueOps) GetNumberValue(input any) dynops.Result[dynops.Number] {
	switch v := input.(type) {
	case dynops.Number:
		return dynops.Success(v)
	case bool:
		if v {
			return dynops.Success(dynops.IntNumber(1))
		}
		return dynops.Success(dynops.IntNumber(0))
	default:
		return dynops.Errorf[dynops.Number](dynops.CodeTypeMismatch, "not a number: %v", input)
	}
}

func (valueOps) CreateString(s string) any { return s }

func (valueOps) GetStringValue(input any) dynops.Result[string] {
	if s, ok := input.(string); ok {
		return dynops.Success(s)
	}
	return dynops.Errorf[string](dynops.CodeTypeMismatch, "not a string: %v", input)
}

func (valueOps) CreateList(elements []any) any {
	out := make([]any, len(elements))
	copy(out, elements)
	return out
}

func (valueOps) GetStream(input any) dynops.Result[[]any] {
	switch l := input.(type) {
	case []any:
		out := make([]any, len(l))
		copy(out, l)
		return dynops.Success(out)
	case []byte:
		// Byte strings are list-shaped: expand to byte-valued numbers.
		out := make([]any, len(l))
		for i, b := range l {
			out[i] = dynops.IntNumber(int64(int8(b)))
		}
		return dynops.Success(out)
	default:
		return dynops.Errorf[[]any](dynops.CodeTypeMismatch, "not a CBOR array: %v", input)
	}
}

func (valueOps) CreateMap(entries []dynops.MapEntry[any]) any {
	m := ordered.New[any]()
	for _, e := range entries {
		ks, ok := keyString(e.Key)
		if !ok {
			ks = fmt.Sprintf("%v", e.Key)
		}
		m.Set(ks, e.Value)
	}
	return m
}

func (valueOps) GetMapValues(input any) dynops.Result[[]dynops.MapEntry[any]] {
	om, ok := input.(*ordered.Map[any])
	if !ok {
		return dynops.Errorf[[]dynops.MapEntry[any]](dynops.CodeTypeMismatch, "not a CBOR map: %v", input)
	}
	entries := make([]dynops.MapEntry[any], 0, om.Len())
	om.Each(func(k string, v any) {
		entries = append(entries, dynops.MapEntry[any]{Key: k, Value: v})
	})
	return dynops.Success(entries)
}

func (o valueOps) MergeToList(list, value any) dynops.Result[any] {
	switch l := list.(type) {
	case nil:
		return dynops.Success[any]([]any{value})
	case []any:
		out := make([]any, len(l), len(l)+1)
		copy(out, l)
		return dynops.Success[any](append(out, value))
	case []byte:
		expanded, _ := o.GetStream(list).Get()
		return dynops.Success[any](append(expanded, value))
	default:
		return dynops.ErrorWithPartial[any](dynops.CodeMergeConflict,
			fmt.Sprintf("mergeToList called with not a list: %v", list), list)
	}
}

func (valueOps) MergeToMap(m, key, value any) dynops.Result[any] {
	ks, ok := keyString(key)
	if !ok {
		return dynops.ErrorWithPartial[any](dynops.CodeTypeMismatch,
			fmt.Sprintf("key is not a string: %v", key), m)
	}
	switch existing := m.(type) {
	case nil:
		out := ordered.New[any]()
		out.Set(ks, value)
		return dynops.Success[any](out)
	case *ordered.Map[any]:
		out := existing.Clone()
		out.Set(ks, value)
		return dynops.Success[any](out)
	default:
		return dynops.ErrorWithPartial[any](dynops.CodeMergeConflict,
			fmt.Sprintf("mergeToMap called with not a map: %v", m), m)
	}
}

func (valueOps) Remove(input any, key string) any {
	om, ok := input.(*ordered.Map[any])
	if !ok {
		return input
	}
	if _, present := om.Get(key); !present {
		return input
	}
	out := om.Clone()
	out.Delete(key)
	return out
}

func (o valueOps) ConvertTo(out dynops.Ops[any], input any) any {
	switch v := input.(type) {
	case nil:
		return out.Empty()
	case dynops.Number:
		return out.CreateNumeric(v)
	case string:
		return out.CreateString(v)
	case bool:
		return dynops.CreateBoolean(out, v)
	case []byte:
		// Let the target use its own native byte representation if any.
		return dynops.CreateByteList(out, v)
	case []any:
		return dynops.ConvertList[any](o, out, input)
	case *ordered.Map[any]:
		return dynops.ConvertMap[any](o, out, input)
	default:
		return out.Empty()
	}
}

func (valueOps) CompressMaps() bool { return false }

// CreateBoolean stores a native CBOR boolean.
func (valueOps) CreateBoolean(v bool) any { return v }

// GetBooleanValue reads a native boolean, or falls back to the byte view of a
// numeric value.
func (o valueOps) GetBooleanValue(input any) dynops.Result[bool] {
	if b, ok := input.(bool); ok {
		return dynops.Success(b)
	}
	return dynops.MapResult(o.GetNumberValue(input), func(n dynops.Number) bool { return n.Byte() != 0 })
}

// CreateByteList stores the bytes as a native CBOR byte string.
func (valueOps) CreateByteList(b []byte) any {
	return append([]byte(nil), b...)
}

// GetByteBuffer extracts bytes from a native byte string directly, or from a
// list of byte-valued numbers element-wise.
func (o valueOps) GetByteBuffer(input any) dynops.Result[[]byte] {
	if b, ok := input.([]byte); ok {
		return dynops.Success(append([]byte(nil), b...))
	}
	return dynops.FlatMap(o.GetStream(input), func(elements []any) dynops.Result[[]byte] {
		buf := make([]byte, len(elements))
		for i, e := range elements {
			n, ok := o.GetNumberValue(e).Get()
			if !ok {
				return dynops.Errorf[[]byte](dynops.CodeCoercion, "some elements are not bytes: %v", input)
			}
			buf[i] = byte(n.Byte())
		}
		return dynops.Success(buf)
	})
}

func keyString(key any) (string, bool) {
	switch k := key.(type) {
	case string:
		return k, true
	case dynops.Number:
		return k.String(), true
	case bool:
		if k {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// Encode renders a value tree as deterministically encoded CBOR bytes.
func Encode(v any) ([]byte, error) {
	plain, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(plain)
}

// Decode parses CBOR bytes into a value tree. Wire maps carry no order, so
// entries are materialized in sorted key order, matching the deterministic
// encoding Encode produces.
func Decode(data []byte) (any, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromPlain(raw)
}

func toPlain(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case bool, string, []byte:
		return n, nil
	case dynops.Number:
		if n.IsFloat() {
			return n.Float64(), nil
		}
		return n.Int64(), nil
	case []any:
		out := make([]any, len(n))
		for i, el := range n {
			p, err := toPlain(el)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case *ordered.Map[any]:
		out := make(map[string]any, n.Len())
		var convErr error
		n.Each(func(k string, val any) {
			if convErr != nil {
				return
			}
			p, err := toPlain(val)
			if err != nil {
				convErr = err
				return
			}
			out[k] = p
		})
		if convErr != nil {
			return nil, convErr
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cbor: unsupported node type %T", v)
	}
}

func fromPlain(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return n, nil
	case []byte:
		return n, nil
	case int64:
		return dynops.IntNumber(n), nil
	case uint64:
		// CBOR major type 0 reaches 2^64-1; the numeric model is signed 64-bit.
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("cbor: unsigned integer %d overflows the signed 64-bit value range", n)
		}
		return dynops.IntNumber(int64(n)), nil
	case float64:
		return dynops.FloatNumber(n), nil
	case float32:
		return dynops.FloatNumber(float64(n)), nil
	case []any:
		out := make([]any, len(n))
		for i, el := range n {
			c, err := fromPlain(el)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := ordered.New[any]()
		for _, k := range keys {
			c, err := fromPlain(n[k])
			if err != nil {
				return nil, err
			}
			out.Set(k, c)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cbor: unsupported wire type %T", v)
	}
}
