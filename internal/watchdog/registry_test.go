package watchdog

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleAndDeadline(t *testing.T) {
	r := NewRegistry(8)
	deadline := time.Now().Add(5 * time.Second).Truncate(time.Nanosecond)

	assert.NoError(t, r.Schedule(Recv, 17, deadline))
	assert.Equal(t, 1, r.Len())

	got, err := r.Deadline(Recv, 17)
	assert.NoError(t, err)
	assert.True(t, got.Equal(deadline), "deadline round-trip mismatch: got %v want %v", got, deadline)
}

func TestScheduleDuplicate(t *testing.T) {
	r := NewRegistry(8)
	deadline := time.Now().Add(time.Second)

	assert.NoError(t, r.Schedule(Settings, 1, deadline))
	assert.ErrorIs(t, r.Schedule(Settings, 1, deadline.Add(time.Second)), ErrWatchdogIDDuplicated)

	// same stream, different purpose is a distinct watchdog
	assert.NoError(t, r.Schedule(Send, 1, deadline))
	// same purpose, different stream likewise
	assert.NoError(t, r.Schedule(Settings, 2, deadline))
	assert.Equal(t, 3, r.Len())
}

func TestReset(t *testing.T) {
	r := NewRegistry(8)
	first := time.Now().Add(time.Second)
	second := first.Add(30 * time.Second)

	assert.ErrorIs(t, r.Reset(Recv, 5, first), ErrWatchdogNotFound)

	assert.NoError(t, r.Schedule(Recv, 5, first))
	assert.NoError(t, r.Reset(Recv, 5, second))

	got, err := r.Deadline(Recv, 5)
	assert.NoError(t, err)
	assert.True(t, got.Equal(second), "Reset must overwrite the deadline in place")
	assert.Equal(t, 1, r.Len())
}

func TestCancel(t *testing.T) {
	r := NewRegistry(8)
	deadline := time.Now().Add(time.Second)

	assert.ErrorIs(t, r.Cancel(Send, 9), ErrWatchdogNotFound)

	assert.NoError(t, r.Schedule(Send, 9, deadline))
	assert.NoError(t, r.Cancel(Send, 9))
	assert.Equal(t, 0, r.Len())

	_, err := r.Deadline(Send, 9)
	assert.ErrorIs(t, err, ErrWatchdogNotFound)
}

func TestExpired(t *testing.T) {
	r := NewRegistry(8)
	now := time.Now()

	assert.NoError(t, r.Schedule(Settings, 1, now.Add(-2*time.Second)))
	assert.NoError(t, r.Schedule(Recv, 1, now.Add(-time.Second)))
	assert.NoError(t, r.Schedule(Send, 2, now.Add(time.Minute)))

	overdue := r.Expired(now)
	assert.Len(t, overdue, 2)

	sort.Slice(overdue, func(i, j int) bool { return overdue[i].Purpose < overdue[j].Purpose })
	assert.Equal(t, Settings, overdue[0].Purpose)
	assert.Equal(t, uint32(1), overdue[0].StreamID)
	assert.Equal(t, Recv, overdue[1].Purpose)
	assert.Equal(t, uint32(1), overdue[1].StreamID)

	// the sweep itself does not disarm anything
	assert.Equal(t, 3, r.Len())

	for _, e := range overdue {
		assert.NoError(t, r.Cancel(e.Purpose, e.StreamID))
	}
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.Expired(now))
}

func TestManyStreams(t *testing.T) {
	r := NewRegistry(256)
	deadline := time.Now().Add(time.Minute)

	for id := uint32(0); id < 256; id++ {
		assert.NoError(t, r.Schedule(Recv, id, deadline))
		assert.NoError(t, r.Schedule(Send, id, deadline))
	}
	assert.Equal(t, 512, r.Len())

	for id := uint32(0); id < 256; id += 2 {
		assert.NoError(t, r.Cancel(Recv, id))
	}
	assert.Equal(t, 384, r.Len())

	// odd recv watchdogs and all send watchdogs survive
	_, err := r.Deadline(Recv, 3)
	assert.NoError(t, err)
	_, err = r.Deadline(Recv, 4)
	assert.ErrorIs(t, err, ErrWatchdogNotFound)
	_, err = r.Deadline(Send, 4)
	assert.NoError(t, err)
}
