// Package view defines non-owning descriptors of byte ranges owned
// elsewhere. A view is a plain slice header under the hood: it carries a
// pointer and a length, never copies the bytes it describes, and never
// frees them. Whoever constructed a view keeps the backing buffer alive
// and stable for as long as the view is held.
package view

import "bytes"

// RO is a read-only byte-range view. The zero value is the empty view,
// which is valid and equal only to other empty views.
type RO []byte

// RW is the mutable flavor of RO. Holders may overwrite the referenced
// bytes in place but must not grow the range or move it.
type RW []byte

// RO reinterprets the view as read-only. No copy.
func (v RW) RO() RO {
	return RO(v)
}

// Len returns the number of bytes the view describes.
func (v RO) Len() int {
	return len(v)
}

// IsEmpty reports whether the view describes no bytes.
func (v RO) IsEmpty() bool {
	return len(v) == 0
}

// Equal reports byte-exact equality of two views. Views of different
// lengths are unequal without touching the bytes; equal-length views are
// compared bytewise, short-circuiting on the first mismatch.
func Equal(a, b RO) bool {
	return bytes.Equal(a, b)
}
