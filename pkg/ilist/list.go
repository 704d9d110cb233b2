// Package ilist implements an intrusive singly-linked list. The node is
// embedded inside the record it threads, so chaining a record costs no
// separate allocation. Instead of recovering the owning record from a node
// with offset arithmetic, each node is bound to a typed back-reference when
// its record is created and recovery is a plain field read.
package ilist

// Node is the chain link embedded inside an owning record of type T. A node
// has no identity of its own and belongs to at most one chain at a time.
type Node[T any] struct {
	next  *Node[T]
	owner *T
}

// Bind associates the node with the record that embeds it. Call once, when
// the owning record is created, before the node enters any chain.
func (n *Node[T]) Bind(owner *T) {
	n.owner = owner
}

// Owner returns the record the node was bound to, or nil for an unbound
// node.
func (n *Node[T]) Owner() *T {
	return n.owner
}

// Next returns the following node in the chain, or nil at the tail.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// Head references the first node of a chain. The zero value is an empty
// chain.
type Head[T any] struct {
	first *Node[T]
}

// First returns the first node of the chain, or nil when empty.
func (h *Head[T]) First() *Node[T] {
	return h.first
}

// IsEmpty reports whether the chain has no nodes.
func (h *Head[T]) IsEmpty() bool {
	return h.first == nil
}

// Insert makes n the new first element of the chain. O(1).
func (h *Head[T]) Insert(n *Node[T]) {
	n.next = h.first
	h.first = n
}

// Remove unlinks n from the chain by identity. It walks the chain keeping a
// pointer to the link that references the current node, so the link is
// rewritten in place when n is reached. O(chain length). The node must be
// on the chain; removing a node that is not panics on the nil link rather
// than failing silently.
func (h *Head[T]) Remove(n *Node[T]) {
	link := &h.first
	for *link != n {
		link = &(*link).next
	}
	*link = n.next
	n.next = nil
}
