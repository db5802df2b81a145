// Package json adapts an order-preserving JSON value tree to the dynops
// algebra. The tree node types are:
//
//	nil            the empty value (JSON null)
//	dynops.Number  a number
//	string         a string
//	bool           a boolean
//	[]any          an array
//	*ordered.Map   an object, insertion-ordered
//
// Decode and Encode bridge the tree to JSON bytes via goccy/go-json.
package json

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gojson "github.com/goccy/go-json"

	dynops "github.com/reoring/dynops"
	"github.com/reoring/dynops/internal/ordered"
)

// Instance is the JSON adapter. It is stateless; all callers share it.
var Instance dynops.Ops[any] = valueOps{}

type valueOps struct{}

func (valueOps) Empty() any { return nil }

func (valueOps) CreateNumeric(n dynops.Number) any { return n }

func (valueOps) GetNumberValue(input any) dynops.Result[dynops.Number] {
	switch v := input.(type) {
	case dynops.Number:
		return dynops.Success(v)
	case bool:
		// Booleans coerce to 1/0, mirroring the byte encoding of CreateBoolean.
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
	if l, ok := input.([]any); ok {
		out := make([]any, len(l))
		copy(out, l)
		return dynops.Success(out)
	}
	return dynops.Errorf[[]any](dynops.CodeTypeMismatch, "not a JSON array: %v", input)
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
		return dynops.Errorf[[]dynops.MapEntry[any]](dynops.CodeTypeMismatch, "not a JSON object: %v", input)
	}
	entries := make([]dynops.MapEntry[any], 0, om.Len())
	om.Each(func(k string, v any) {
		entries = append(entries, dynops.MapEntry[any]{Key: k, Value: v})
	})
	return dynops.Success(entries)
}

func (valueOps) MergeToList(list, value any) dynops.Result[any] {
	switch l := list.(type) {
	case nil:
		return dynops.Success[any]([]any{value})
	case []any:
		out := make([]any, len(l), len(l)+1)
		copy(out, l)
		return dynops.Success[any](append(out, value))
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
	case []any:
		return dynops.ConvertList[any](o, out, input)
	case *ordered.Map[any]:
		return dynops.ConvertMap[any](o, out, input)
	default:
		return out.Empty()
	}
}

func (valueOps) CompressMaps() bool { return false }

// CreateBoolean stores a native JSON boolean.
func (valueOps) CreateBoolean(v bool) any { return v }

// GetBooleanValue reads a native boolean, or falls back to the byte view of a
// numeric value.
func (o valueOps) GetBooleanValue(input any) dynops.Result[bool] {
	if b, ok := input.(bool); ok {
		return dynops.Success(b)
	}
	return dynops.MapResult(o.GetNumberValue(input), func(n dynops.Number) bool { return n.Byte() != 0 })
}

// keyString renders scalar map keys the way the JSON object model does.
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

// Decode parses JSON bytes into a value tree, preserving object key order.
// It walks the token stream rather than unmarshaling into Go maps, which
// would randomize entry order.
func Decode(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// Trailing content after the first document is malformed input.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("json: unexpected trailing content")
	}
	return v, nil
}

func decodeValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			m := ordered.New[any]()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("json: object key is not a string: %v", kt)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			elements := []any{}
			for dec.More() {
				el, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				elements = append(elements, el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return elements, nil
		default:
			return nil, fmt.Errorf("json: unexpected delimiter %v", v)
		}
	case gojson.Number:
		return dynops.ParseNumber(v.String())
	case string:
		return v, nil
	case bool:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("json: unexpected token %v", tok)
	}
}

// Encode renders a value tree as JSON bytes, emitting object keys in tree
// order.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch n := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if n {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case dynops.Number:
		// JSON has no literal for NaN or infinity.
		if f := n.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("json: cannot encode non-finite number %v", n)
		}
		buf.WriteString(n.String())
	case string:
		escaped, err := gojson.Marshal(n)
		if err != nil {
			return err
		}
		buf.Write(escaped)
	case []any:
		buf.WriteByte('[')
		for i, el := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, el); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *ordered.Map[any]:
		buf.WriteByte('{')
		first := true
		var encErr error
		n.Each(func(k string, val any) {
			if encErr != nil {
				return
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			escaped, err := gojson.Marshal(k)
			if err != nil {
				encErr = err
				return
			}
			buf.Write(escaped)
			buf.WriteByte(':')
			encErr = encodeValue(buf, val)
		})
		if encErr != nil {
			return encErr
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("json: unsupported node type %T", v)
	}
	return nil
}
