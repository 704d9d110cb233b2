package ilist

import "testing"

type record struct {
	node Node[record]
	id   int
}

func newRecord(id int) *record {
	r := &record{id: id}
	r.node.Bind(r)
	return r
}

func chainIDs(h *Head[record]) []int {
	var ids []int
	for n := h.First(); n != nil; n = n.Next() {
		ids = append(ids, n.Owner().id)
	}
	return ids
}

func TestInsertHeadOrder(t *testing.T) {
	var h Head[record]
	if !h.IsEmpty() {
		t.Fatalf("zero head must be empty")
	}

	for i := 1; i <= 3; i++ {
		h.Insert(&newRecord(i).node)
	}

	ids := chainIDs(&h)
	want := []int{3, 2, 1}
	if len(ids) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("chain order = %v, want %v", ids, want)
		}
	}
}

func TestOwnerRecovery(t *testing.T) {
	r := newRecord(42)
	var h Head[record]
	h.Insert(&r.node)

	if got := h.First().Owner(); got != r {
		t.Fatalf("Owner() = %p, want %p", got, r)
	}
}

func TestRemove(t *testing.T) {
	var h Head[record]
	a, b, c := newRecord(1), newRecord(2), newRecord(3)
	h.Insert(&a.node)
	h.Insert(&b.node)
	h.Insert(&c.node) // chain: c b a

	// middle
	h.Remove(&b.node)
	ids := chainIDs(&h)
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("after removing middle, chain = %v, want [3 1]", ids)
	}

	// head
	h.Remove(&c.node)
	ids = chainIDs(&h)
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("after removing head, chain = %v, want [1]", ids)
	}

	// last
	h.Remove(&a.node)
	if !h.IsEmpty() {
		t.Fatalf("chain must be empty after removing the last node")
	}
}

func TestRemoveByIdentityNotContent(t *testing.T) {
	var h Head[record]
	a, b := newRecord(7), newRecord(7) // same content, distinct records
	h.Insert(&a.node)
	h.Insert(&b.node)

	h.Remove(&a.node)
	if got := h.First().Owner(); got != b {
		t.Fatalf("removal must unlink by node identity, surviving record = %p, want %p", got, b)
	}
}
