package dynops_test

import (
	"testing"

	dynops "github.com/reoring/dynops"
)

func TestParseNumber(t *testing.T) {
	n, err := dynops.ParseNumber("42")
	if err != nil || n.IsFloat() || n.Int64() != 42 {
		t.Fatalf("ParseNumber(42) = %v, %v", n, err)
	}
	f, err := dynops.ParseNumber("2.5")
	if err != nil || !f.IsFloat() || f.Float64() != 2.5 {
		t.Fatalf("ParseNumber(2.5) = %v, %v", f, err)
	}
	if _, err := dynops.ParseNumber("nope"); err == nil {
		t.Fatalf("ParseNumber accepted garbage")
	}
}

func TestNumber_NarrowingTruncates(t *testing.T) {
	if got := dynops.IntNumber(256).Byte(); got != 0 {
		t.Fatalf("Byte(256) = %d; want 0 (two's-complement wrap)", got)
	}
	if got := dynops.IntNumber(65536).Short(); got != 0 {
		t.Fatalf("Short(65536) = %d; want 0", got)
	}
	if got := dynops.FloatNumber(3.9).Int64(); got != 3 {
		t.Fatalf("Int64(3.9) = %d; want 3 (truncation toward zero)", got)
	}
}

func TestNumber_EqualAcrossPayloads(t *testing.T) {
	if !dynops.IntNumber(3).Equal(dynops.FloatNumber(3.0)) {
		t.Fatalf("3 != 3.0")
	}
	if dynops.IntNumber(3).Equal(dynops.FloatNumber(3.5)) {
		t.Fatalf("3 == 3.5")
	}
}

func TestNumber_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "-17", "9007199254740993", "2.5", "-0.125"} {
		n, err := dynops.ParseNumber(s)
		if err != nil {
			t.Fatalf("ParseNumber(%q): %v", s, err)
		}
		back, err := dynops.ParseNumber(n.String())
		if err != nil || !back.Equal(n) {
			t.Fatalf("round trip of %q: got %v, %v", s, back, err)
		}
	}
}
