// Package hashtable implements a fixed-size chained hash table keyed by
// byte-range views. The bucket count and hash strategy are fixed at
// construction; the table never resizes, so the caller sizes it for the
// peak entry count and manages the load factor. Keys and values are stored
// as views: the table owns its entry records but never the bytes they
// describe, and whoever supplies a key or value keeps its backing buffer
// alive for as long as the entry is live.
//
// The table is not safe for concurrent use. Callers sharing one across
// goroutines serialize access externally.
package hashtable

import (
	"errors"

	"github.com/evidencebp/garage/pkg/ilist"
	"github.com/evidencebp/garage/pkg/view"
)

var (
	ErrBucketCountLessThan1 = errors.New("bucket count must be greater than 0")
	ErrNilHashFunc          = errors.New("hash func must not be nil")
)

// HashFunc maps a key view to the hash used for bucket selection. A table's
// hash func must be deterministic for the table's whole lifetime; two
// byte-equal keys must always hash alike.
type HashFunc func(key view.RO) uint64

// Entry pairs a key view with a value view and embeds the chain link that
// threads it into its bucket. The table allocates and owns Entry records
// exclusively; entries handed back by Put and Pop are detached copies of
// the key/value pair, not live table storage.
type Entry struct {
	node  ilist.Node[Entry]
	key   view.RO
	value view.RW
}

// Key returns the entry's key view.
func (e *Entry) Key() view.RO {
	return e.key
}

// Value returns the entry's value view.
func (e *Entry) Value() view.RW {
	return e.value
}

// Table is the fixed-size chained hash table. Each bucket holds the head of
// an intrusive chain of entries whose key hashes to that bucket.
type Table struct {
	buckets []ilist.Head[Entry]
	hash    HashFunc
	entries int
}

// New builds a table with the given hash strategy and bucket count. The
// bucket count is fixed for the table's lifetime; see
// RecommendedBucketCount for sizing it from an expected entry count.
func New(hash HashFunc, bucketCount int) (*Table, error) {
	if hash == nil {
		return nil, ErrNilHashFunc
	}
	if bucketCount < 1 {
		return nil, ErrBucketCountLessThan1
	}
	return &Table{
		buckets: make([]ilist.Head[Entry], bucketCount),
		hash:    hash,
	}, nil
}

func (t *Table) bucket(key view.RO) *ilist.Head[Entry] {
	return &t.buckets[t.hash(key)%uint64(len(t.buckets))]
}

// find walks one bucket's chain for a byte-equal key. Distinct keys that
// collide on hash are told apart here, never by hash value alone.
func find(head *ilist.Head[Entry], key view.RO) *Entry {
	for n := head.First(); n != nil; n = n.Next() {
		e := n.Owner()
		if view.Equal(key, e.key) {
			return e
		}
	}
	return nil
}

// Has reports whether an entry with a byte-equal key exists.
func (t *Table) Has(key view.RO) bool {
	return find(t.bucket(key), key) != nil
}

// Get returns the value stored under key, or an empty view when the key is
// absent. An absent key and a present key holding an empty value are not
// distinguishable through Get; use Lookup when that matters.
func (t *Table) Get(key view.RO) view.RW {
	e := find(t.bucket(key), key)
	if e == nil {
		return nil
	}
	return e.value
}

// Lookup is Get with an explicit presence report.
func (t *Table) Lookup(key view.RO) (view.RW, bool) {
	e := find(t.bucket(key), key)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key. When the key is already present the entry's
// key and value views are overwritten in place, the entry keeps its chain
// position, and the previous key/value pair is returned with replaced ==
// true. Otherwise a fresh entry is head-inserted into its bucket and
// replaced is false. The returned pair lets the caller release whatever
// resource the previous value view referenced before the reference is
// lost.
func (t *Table) Put(key view.RO, value view.RW) (old Entry, replaced bool) {
	head := t.bucket(key)
	if e := find(head, key); e != nil {
		old.key, old.value = e.key, e.value
		e.key, e.value = key, value
		return old, true
	}
	e := &Entry{key: key, value: value}
	e.node.Bind(e)
	head.Insert(&e.node)
	t.entries++
	return Entry{}, false
}

// Pop removes the entry with a byte-equal key. When found, the removed
// key/value pair is returned with ok == true and the entry's storage is
// released; otherwise the zero Entry and false.
func (t *Table) Pop(key view.RO) (old Entry, ok bool) {
	head := t.bucket(key)
	e := find(head, key)
	if e == nil {
		return Entry{}, false
	}
	old.key, old.value = e.key, e.value
	head.Remove(&e.node)
	t.entries--
	return old, true
}

// Range calls fn for every entry until fn returns false. Iteration order is
// unspecified. The table must not be mutated during the walk.
func (t *Table) Range(fn func(key view.RO, value view.RW) bool) {
	for i := range t.buckets {
		for n := t.buckets[i].First(); n != nil; n = n.Next() {
			e := n.Owner()
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.entries
}

// BucketCount returns the fixed bucket count.
func (t *Table) BucketCount() int {
	return len(t.buckets)
}
