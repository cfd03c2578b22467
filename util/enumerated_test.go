package util

import (
	"bufio"
	"bytes"
	"testing"
)

func TestEnumSetOrder(t *testing.T) {
	e := NewEnumSet(4)
	for _, v := range []string{"SH", "NA", "LA-SBJ", "NA", "RA-OBJ"} {
		e.Add(v)
	}
	if e.Len() != 4 {
		t.Fatalf("Expected 4 values, got %d", e.Len())
	}
	if i, ok := e.IndexOf("LA-SBJ"); !ok || i != 2 {
		t.Errorf("Expected LA-SBJ at 2, got %d (%v)", i, ok)
	}
	if v := e.ValueOf(3); v != "RA-OBJ" {
		t.Errorf("Expected RA-OBJ at 3, got %s", v)
	}
	if i, isNew := e.Add("SH"); isNew || i != 0 {
		t.Errorf("Re-adding SH returned %d, %v", i, isNew)
	}
}

func TestEnumSetRoundTrip(t *testing.T) {
	e := NewEnumSet(3)
	e.Add("a b")
	e.Add("c")
	e.Add("")
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	loaded, err := ReadEnumSet(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !loaded.Frozen {
		t.Error("Loaded set should be frozen")
	}
	if loaded.Len() != e.Len() {
		t.Fatalf("Expected %d values, got %d", e.Len(), loaded.Len())
	}
	for i := 0; i < e.Len(); i++ {
		if loaded.ValueOf(i) != e.ValueOf(i) {
			t.Errorf("Value %d: expected %q got %q", i, e.ValueOf(i), loaded.ValueOf(i))
		}
	}
}

func TestEnumSetFrozenPanics(t *testing.T) {
	e := NewEnumSet(1)
	e.Frozen = true
	defer func() {
		if recover() == nil {
			t.Error("Expected panic when adding to a frozen set")
		}
	}()
	e.Add("x")
}
