package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreAcquireIsStable(t *testing.T) {
	s := NewSessionStore(DefaultHistorySize, time.Hour)

	h1, c1 := s.Acquire(7)
	require.NotNil(t, h1)
	require.NotNil(t, c1)

	h1.Record(1, "a", "", 100)
	require.NoError(t, c1.Push(1, 2))

	// A second acquire for the same user returns the same state.
	h2, c2 := s.Acquire(7)
	assert.Equal(t, 1, h2.Snapshot().Size)
	assert.Equal(t, 2, c2.TotalQuantity())
	assert.Equal(t, 1, s.Len())
}

func TestSessionStoreIsolatesUsers(t *testing.T) {
	s := NewSessionStore(DefaultHistorySize, time.Hour)

	_, cartA := s.Acquire(1)
	require.NoError(t, cartA.Push(1, 1))

	_, cartB := s.Acquire(2)
	assert.Equal(t, 0, cartB.TotalQuantity())
	assert.Equal(t, 2, s.Len())
}

func TestSessionStoreRelease(t *testing.T) {
	s := NewSessionStore(DefaultHistorySize, time.Hour)

	_, cart := s.Acquire(7)
	require.NoError(t, cart.Push(1, 5))
	s.Release(7)
	assert.Equal(t, 0, s.Len())

	// Logging back in starts from empty state.
	_, fresh := s.Acquire(7)
	assert.Equal(t, 0, fresh.TotalQuantity())

	// Releasing an unknown user is a no-op.
	s.Release(99)
}

func TestSessionStoreSweep(t *testing.T) {
	s := NewSessionStore(DefaultHistorySize, time.Minute)

	s.Acquire(1)
	s.Acquire(2)

	// Nothing is idle yet.
	assert.Equal(t, 0, s.Sweep(time.Now().Add(-time.Minute)))
	assert.Equal(t, 2, s.Len())

	// Everything is idle against a future cutoff.
	removed := s.Sweep(time.Now().Add(time.Second))
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, s.Len())
}
