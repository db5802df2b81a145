package json_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	dynops "github.com/reoring/dynops"
	jsonops "github.com/reoring/dynops/ops/json"
)

var ops = jsonops.Instance

func TestDecode_PreservesObjectKeyOrder(t *testing.T) {
	v, err := jsonops.Decode([]byte(`{"z": 1, "a": 2, "m": {"inner": true}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	entries, ok := ops.GetMapValues(v).Get()
	if !ok {
		t.Fatalf("GetMapValues failed")
	}
	want := []string{"z", "a", "m"}
	for i, e := range entries {
		if k, _ := ops.GetStringValue(e.Key).Get(); k != want[i] {
			t.Fatalf("key %d = %q; want %q", i, k, want[i])
		}
	}
}

func TestEncode_RejectsNonFiniteNumbers(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := jsonops.Encode(dynops.CreateDouble(ops, f)); err == nil {
			t.Fatalf("Encode(%v) succeeded; JSON has no literal for it", f)
		}
	}
	// Nested occurrences fail too.
	list := ops.CreateList([]any{dynops.CreateDouble(ops, math.NaN())})
	if _, err := jsonops.Encode(list); err == nil {
		t.Fatal("Encode of a list holding NaN succeeded")
	}
}

func TestBoolean_NativeRepresentation(t *testing.T) {
	v := dynops.CreateBoolean(ops, false)
	if v != any(false) {
		t.Fatalf("boolean is not a native bool: %#v", v)
	}
	out, err := jsonops.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != "false" {
		t.Fatalf("rendering = %s; want false", out)
	}
	// Non-boolean input still decodes through the numeric byte view.
	if got, ok := dynops.GetBooleanValue(ops, dynops.CreateInt(ops, 2)).Get(); !ok || !got {
		t.Fatalf("GetBooleanValue(2) = %v, %v; want true", got, ok)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	src := []byte(`{"z":1,"a":[true,null,"s"],"f":-2.5}`)
	v, err := jsonops.Decode(src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := jsonops.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != string(src) {
		t.Fatalf("Encode = %s; want %s", out, src)
	}
}

func TestDecode_RejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{`{"a":`, `[1,]`, `{"a":1}extra`} {
		if _, err := jsonops.Decode([]byte(bad)); err == nil {
			t.Fatalf("Decode(%q) succeeded", bad)
		}
	}
}

func TestNumberFidelity(t *testing.T) {
	v, err := jsonops.Decode([]byte(`[9007199254740993, 0.1]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	elements, _ := ops.GetStream(v).Get()
	n0, _ := ops.GetNumberValue(elements[0]).Get()
	if n0.IsFloat() || n0.Int64() != 9007199254740993 {
		t.Fatalf("large integer lost precision: %v", n0)
	}
	n1, _ := ops.GetNumberValue(elements[1]).Get()
	if !n1.IsFloat() || n1.Float64() != 0.1 {
		t.Fatalf("float mangled: %v", n1)
	}
}

func TestBooleanCoercesToNumber(t *testing.T) {
	if n, ok := ops.GetNumberValue(true).Get(); !ok || n.Int64() != 1 {
		t.Fatalf("GetNumberValue(true) = %v, %v", n, ok)
	}
}

func TestMergeToMap_OverwritesExistingKey(t *testing.T) {
	m, _ := ops.MergeToMap(ops.Empty(), ops.CreateString("k"), dynops.CreateInt(ops, 1)).Get()
	m2, ok := ops.MergeToMap(m, ops.CreateString("k"), dynops.CreateInt(ops, 2)).Get()
	if !ok {
		t.Fatalf("second merge failed")
	}
	if v, _ := dynops.GetIntValue(ops, dynops.Get(ops, m2, "k").Or(nil)).Get(); v != 2 {
		t.Fatalf("value = %d; want 2", v)
	}
	entries, _ := ops.GetMapValues(m2).Get()
	if len(entries) != 1 {
		t.Fatalf("duplicate entry after overwrite: %d entries", len(entries))
	}
	// The original map is untouched.
	if v, _ := dynops.GetIntValue(ops, dynops.Get(ops, m, "k").Or(nil)).Get(); v != 1 {
		t.Fatalf("merge mutated its input")
	}
}

func TestMergeToList_ErrorCarriesInputAsPartial(t *testing.T) {
	scalar := ops.CreateString("s")
	r := ops.MergeToList(scalar, dynops.CreateInt(ops, 1))
	if !r.IsError() {
		t.Fatalf("merge into scalar succeeded")
	}
	if p, ok := r.Partial(); !ok || p != scalar {
		t.Fatalf("partial = %v, %v; want the unmerged input", p, ok)
	}
}

func TestDecodeEncode_TreeEquality(t *testing.T) {
	a, err := jsonops.Decode([]byte(`{"x": [1, 2], "y": {"z": "w"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := jsonops.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := jsonops.Decode(out)
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("decode/encode/decode changed the tree (-want +got):\n%s", diff)
	}
}
