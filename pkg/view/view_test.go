package view

import "testing"

func TestEqual(t *testing.T) {
	buf := []byte("hello")

	if !Equal(RO(buf), RO([]byte("hello"))) {
		t.Fatalf("expected byte-equal views from distinct buffers to be equal")
	}
	if Equal(RO(buf), RO([]byte("hell"))) {
		t.Fatalf("expected views of different lengths to be unequal")
	}
	if Equal(RO(buf), RO([]byte("hellx"))) {
		t.Fatalf("expected views differing in the last byte to be unequal")
	}
}

func TestEqualEmpty(t *testing.T) {
	var zero RO
	empty := RO([]byte{})

	if !Equal(zero, zero) {
		t.Fatalf("zero view must equal itself")
	}
	if !Equal(zero, empty) {
		t.Fatalf("nil view and zero-length view are both empty and must be equal")
	}
	if Equal(zero, RO([]byte{0})) {
		t.Fatalf("empty view must not equal a one-byte view")
	}
}

func TestRWAliasesBacking(t *testing.T) {
	buf := []byte("abc")
	v := RW(buf)

	v[1] = 'x'
	if string(buf) != "axc" {
		t.Fatalf("RW write did not land in the backing buffer, got %q", buf)
	}
	if !Equal(v.RO(), RO(buf)) {
		t.Fatalf("RO conversion must describe the same bytes")
	}
}
