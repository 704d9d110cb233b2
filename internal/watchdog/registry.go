// Package watchdog keeps the per-stream timer bookkeeping of a protocol
// session: each stream owns at most one watchdog per purpose (settings
// ack, receive progress, send progress), keyed by a composite
// purpose+stream byte key in a fixed-size hash table. The registry owns
// the key and value backing bytes itself, so table views stay valid for
// exactly as long as their entries are live.
//
// Like the table underneath it, a Registry is not safe for concurrent
// use; the session loop that owns it serializes access.
package watchdog

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/evidencebp/garage/pkg/hashtable"
	"github.com/evidencebp/garage/pkg/view"
)

// Purpose distinguishes the watchdogs a single stream may hold.
type Purpose uint8

const (
	Settings Purpose = iota + 1
	Recv
	Send
)

func (p Purpose) String() string {
	switch p {
	case Settings:
		return "settings"
	case Recv:
		return "recv"
	case Send:
		return "send"
	}
	return "unknown"
}

var (
	ErrWatchdogIDDuplicated = errors.New("watchdog id duplicated")
	ErrWatchdogNotFound     = errors.New("watchdog not found")
)

const (
	keySize   = 5 // purpose byte + big-endian stream id
	valueSize = 8 // big-endian unix-nano deadline
)

func encodeKey(dst []byte, p Purpose, streamID uint32) {
	dst[0] = byte(p)
	binary.BigEndian.PutUint32(dst[1:], streamID)
}

// Registry maps armed watchdogs to their deadlines.
type Registry struct {
	table *hashtable.Table

	// scratch backs lookup keys; entries never retain it, only the
	// duration of a single table call.
	scratch [keySize]byte
}

// NewRegistry sizes the table for the expected number of concurrently
// open streams, each of which may hold one watchdog per purpose.
func NewRegistry(expectedStreams int) *Registry {
	buckets := hashtable.RecommendedBucketCount(expectedStreams * 3)
	t, err := hashtable.New(hashtable.XXHash, buckets)
	if err != nil {
		// bucket count is computed and always positive
		panic(err)
	}
	return &Registry{table: t}
}

func (r *Registry) key(p Purpose, streamID uint32) view.RO {
	encodeKey(r.scratch[:], p, streamID)
	return view.RO(r.scratch[:])
}

// Schedule arms a watchdog. Arming an already-armed watchdog is the
// caller confusing its own stream state and is reported as
// ErrWatchdogIDDuplicated.
func (r *Registry) Schedule(p Purpose, streamID uint32, deadline time.Time) error {
	if r.table.Has(r.key(p, streamID)) {
		return ErrWatchdogIDDuplicated
	}

	// one slab per watchdog holds both the key and the value bytes; it
	// stays alive until the entry is popped
	slab := make([]byte, keySize+valueSize)
	encodeKey(slab[:keySize], p, streamID)
	binary.BigEndian.PutUint64(slab[keySize:], uint64(deadline.UnixNano()))
	r.table.Put(view.RO(slab[:keySize]), view.RW(slab[keySize:]))

	log.Debug().
		Uint32("stream", streamID).
		Stringer("purpose", p).
		Time("deadline", deadline).
		Msg("watchdog scheduled")
	return nil
}

// Reset re-arms an existing watchdog by overwriting its deadline in
// place through the stored value view.
func (r *Registry) Reset(p Purpose, streamID uint32, deadline time.Time) error {
	v, ok := r.table.Lookup(r.key(p, streamID))
	if !ok {
		return ErrWatchdogNotFound
	}
	binary.BigEndian.PutUint64(v, uint64(deadline.UnixNano()))
	return nil
}

// Cancel disarms a watchdog and releases its entry.
func (r *Registry) Cancel(p Purpose, streamID uint32) error {
	if _, ok := r.table.Pop(r.key(p, streamID)); !ok {
		return ErrWatchdogNotFound
	}
	log.Debug().
		Uint32("stream", streamID).
		Stringer("purpose", p).
		Msg("watchdog cancelled")
	return nil
}

// Deadline reports an armed watchdog's deadline.
func (r *Registry) Deadline(p Purpose, streamID uint32) (time.Time, error) {
	v, ok := r.table.Lookup(r.key(p, streamID))
	if !ok {
		return time.Time{}, ErrWatchdogNotFound
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))), nil
}

// Expiry identifies one overdue watchdog.
type Expiry struct {
	Purpose  Purpose
	StreamID uint32
	Deadline time.Time
}

// Expired collects watchdogs whose deadline is at or before now. The
// caller cancels and fires them afterwards; collecting first keeps
// table mutation out of the walk.
func (r *Registry) Expired(now time.Time) []Expiry {
	var overdue []Expiry
	r.table.Range(func(k view.RO, v view.RW) bool {
		deadline := time.Unix(0, int64(binary.BigEndian.Uint64(v)))
		if !deadline.After(now) {
			overdue = append(overdue, Expiry{
				Purpose:  Purpose(k[0]),
				StreamID: binary.BigEndian.Uint32(k[1:]),
				Deadline: deadline,
			})
		}
		return true
	})
	return overdue
}

// Len returns the number of armed watchdogs.
func (r *Registry) Len() int {
	return r.table.Len()
}
