package ordered_test

import (
	"testing"

	"github.com/reoring/dynops/internal/ordered"
)

func TestMap_InsertionOrder(t *testing.T) {
	m := ordered.New[int]()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)
	want := []string{"z", "a", "m"}
	for i, k := range m.Keys() {
		if k != want[i] {
			t.Fatalf("key %d = %q; want %q", i, k, want[i])
		}
	}
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := ordered.New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)
	if m.Len() != 2 {
		t.Fatalf("Len = %d; want 2", m.Len())
	}
	if m.Keys()[0] != "a" {
		t.Fatalf("overwritten key moved: %v", m.Keys())
	}
	if v, _ := m.Get("a"); v != 10 {
		t.Fatalf("value = %d; want 10", v)
	}
}

func TestMap_Delete(t *testing.T) {
	m := ordered.New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")
	if m.Len() != 2 {
		t.Fatalf("Len = %d; want 2", m.Len())
	}
	if _, ok := m.Get("b"); ok {
		t.Fatalf("deleted key still present")
	}
	if m.Keys()[1] != "c" {
		t.Fatalf("order broken after delete: %v", m.Keys())
	}
	m.Delete("nope") // no-op
	if m.Len() != 2 {
		t.Fatalf("deleting an absent key changed the map")
	}
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := ordered.New[int]()
	m.Set("a", 1)
	c := m.Clone()
	c.Set("b", 2)
	c.Set("a", 9)
	if m.Len() != 1 {
		t.Fatalf("clone write leaked into original")
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Fatalf("clone overwrite leaked into original")
	}
}

func TestMap_Equal(t *testing.T) {
	a := ordered.New[int]()
	a.Set("x", 1)
	a.Set("y", 2)
	b := ordered.New[int]()
	b.Set("x", 1)
	b.Set("y", 2)
	if !a.Equal(b) {
		t.Fatalf("equal maps compare unequal")
	}
	// Same content, different order: not equal for an ordered map.
	c := ordered.New[int]()
	c.Set("y", 2)
	c.Set("x", 1)
	if a.Equal(c) {
		t.Fatalf("order-insensitive equality")
	}
}

func TestMap_Each(t *testing.T) {
	m := ordered.New[string]()
	m.Set("k1", "v1")
	m.Set("k2", "v2")
	var got []string
	m.Each(func(k, v string) { got = append(got, k+"="+v) })
	if len(got) != 2 || got[0] != "k1=v1" || got[1] != "k2=v2" {
		t.Fatalf("Each = %v", got)
	}
}
