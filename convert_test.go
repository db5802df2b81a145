package dynops_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	dynops "github.com/reoring/dynops"
	cborops "github.com/reoring/dynops/ops/cbor"
	jsonops "github.com/reoring/dynops/ops/json"
	yamlops "github.com/reoring/dynops/ops/yaml"
)

// mixedTree builds {"a": 1, "b": [2, 3], "c": {"nested": "s", "flag": true}}
// in the JSON adapter.
func mixedTree(t *testing.T) any {
	t.Helper()
	inner, ok := dynops.NewMapBuilder(ops).
		AddString("nested", dynops.Success(ops.CreateString("s"))).
		AddString("flag", dynops.Success(dynops.CreateBoolean(ops, true))).
		Build(dynops.EmptyMap(ops)).Get()
	if !ok {
		t.Fatalf("inner map build failed")
	}
	list, ok := dynops.MergeSliceToList(ops, dynops.EmptyList(ops), []any{
		dynops.CreateInt(ops, 2), dynops.CreateInt(ops, 3),
	}).Get()
	if !ok {
		t.Fatalf("list build failed")
	}
	m, ok := dynops.NewMapBuilder(ops).
		AddString("a", dynops.Success(dynops.CreateInt(ops, 1))).
		AddString("b", dynops.Success(list)).
		AddString("c", dynops.Success(inner)).
		Build(dynops.EmptyMap(ops)).Get()
	if !ok {
		t.Fatalf("outer map build failed")
	}
	return m
}

func TestConvert_RoundTripThroughYAML(t *testing.T) {
	tree := mixedTree(t)
	node := dynops.Convert(jsonops.Instance, yamlops.Instance, tree)
	back := dynops.Convert(yamlops.Instance, jsonops.Instance, node)
	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("json -> yaml -> json changed the tree (-want +got):\n%s", diff)
	}
}

func TestConvert_RoundTripThroughCBOR(t *testing.T) {
	tree := mixedTree(t)
	cv := dynops.Convert(jsonops.Instance, cborops.Instance, tree)
	back := dynops.Convert(cborops.Instance, jsonops.Instance, cv)
	if diff := cmp.Diff(tree, back); diff != "" {
		t.Fatalf("json -> cbor -> json changed the tree (-want +got):\n%s", diff)
	}
}

func TestConvert_ThreeHopRoundTrip(t *testing.T) {
	src, err := jsonops.Decode([]byte(`{"id":7,"tags":["a","b"],"on":true,"meta":{"ratio":0.5,"note":null}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	node := dynops.Convert(jsonops.Instance, yamlops.Instance, src)
	cv := dynops.Convert(yamlops.Instance, cborops.Instance, node)
	back := dynops.Convert(cborops.Instance, jsonops.Instance, cv)
	if diff := cmp.Diff(src, back); diff != "" {
		t.Fatalf("json -> yaml -> cbor -> json changed the tree (-want +got):\n%s", diff)
	}
}

func TestConvert_BooleanKeepsNativeRepresentation(t *testing.T) {
	b := dynops.CreateBoolean(jsonops.Instance, true)
	if b != any(true) {
		t.Fatalf("JSON boolean is not native: %#v", b)
	}
	node := dynops.Convert(jsonops.Instance, yamlops.Instance, b)
	if v, ok := dynops.GetBooleanValue(yamlops.Instance, node).Get(); !ok || !v {
		t.Fatalf("converted boolean = %v, %v", v, ok)
	}
	text, err := yamlops.Encode(node)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.TrimSpace(string(text)) != "true" {
		t.Fatalf("YAML rendering = %q; want true", text)
	}
	cv := dynops.Convert(yamlops.Instance, cborops.Instance, node)
	if cv != any(true) {
		t.Fatalf("CBOR boolean is not native: %#v", cv)
	}
}

func TestConvert_QueryAfterConversion(t *testing.T) {
	// {"a": 1, "b": [2, 3]} converted to YAML, then queried for "b".
	list, _ := dynops.MergeSliceToList(ops, dynops.EmptyList(ops), []any{
		dynops.CreateInt(ops, 2), dynops.CreateInt(ops, 3),
	}).Get()
	m, _ := dynops.NewMapBuilder(ops).
		AddString("a", dynops.Success(dynops.CreateInt(ops, 1))).
		AddString("b", dynops.Success(list)).
		Build(dynops.EmptyMap(ops)).Get()

	node := dynops.Convert(jsonops.Instance, yamlops.Instance, m)
	b, ok := dynops.Get(yamlops.Instance, node, "b").Get()
	if !ok {
		t.Fatalf("key b lost in conversion")
	}
	ints, ok := dynops.GetIntStream(yamlops.Instance, b).Get()
	if !ok || len(ints) != 2 || ints[0] != 2 || ints[1] != 3 {
		t.Fatalf("converted list = %v, %v; want [2 3]", ints, ok)
	}
}

func TestConvert_EmptyValueMapsToEmpty(t *testing.T) {
	node := dynops.Convert(jsonops.Instance, yamlops.Instance, jsonops.Instance.Empty())
	if node != yamlops.Instance.Empty() {
		t.Fatalf("empty did not convert to the target's empty singleton")
	}
}

func TestConvertList_DegradesOnMalformedInput(t *testing.T) {
	// A scalar is not a list; conversion degrades to an empty list instead of
	// failing.
	out := dynops.ConvertList[any](jsonops.Instance, jsonops.Instance, ops.CreateString("scalar"))
	elements, ok := jsonops.Instance.GetStream(out).Get()
	if !ok || len(elements) != 0 {
		t.Fatalf("degraded conversion = %v, %v; want empty list", elements, ok)
	}
}

func TestConvertMap_DegradesOnMalformedInput(t *testing.T) {
	out := dynops.ConvertMap[any](jsonops.Instance, jsonops.Instance, dynops.CreateInt(ops, 3))
	entries, ok := jsonops.Instance.GetMapValues(out).Get()
	if !ok || len(entries) != 0 {
		t.Fatalf("degraded conversion = %v, %v; want empty map", entries, ok)
	}
}

func TestConvert_ByteListUsesNativeTargetRepresentation(t *testing.T) {
	raw := []byte{1, 2, 3}
	jlist := dynops.CreateByteList(jsonops.Instance, raw)
	cv := dynops.Convert(jsonops.Instance, cborops.Instance, jlist)
	got, ok := dynops.GetByteBuffer(cborops.Instance, cv).Get()
	if !ok || len(got) != 3 || got[0] != 1 {
		t.Fatalf("byte list conversion = %v, %v", got, ok)
	}

	// And back: CBOR's native byte string converts to a JSON list of numbers.
	native := dynops.CreateByteList(cborops.Instance, raw)
	if _, isBytes := native.([]byte); !isBytes {
		t.Fatalf("CBOR adapter did not use its native byte representation")
	}
	back := dynops.Convert(cborops.Instance, jsonops.Instance, native)
	round, ok := dynops.GetByteBuffer(jsonops.Instance, back).Get()
	if !ok || len(round) != 3 || round[2] != 3 {
		t.Fatalf("byte list round trip = %v, %v", round, ok)
	}
}
