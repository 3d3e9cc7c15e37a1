package realtime

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReportsFirstConnection(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	c1 := newFakeConn(userID, "alice")
	c2 := newFakeConn(userID, "alice")

	assert.True(t, r.Register(c1), "first connection should be reported as first")
	assert.False(t, r.Register(c2), "second connection must not be first")
	assert.Len(t, r.ConnectionsOf(userID), 2)
}

func TestUnregisterReportsLastConnection(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	c1 := newFakeConn(userID, "alice")
	c2 := newFakeConn(userID, "alice")
	r.Register(c1)
	r.Register(c2)

	removed, last := r.Unregister(userID, c1.ID())
	assert.True(t, removed)
	assert.False(t, last)

	removed, last = r.Unregister(userID, c2.ID())
	assert.True(t, removed)
	assert.True(t, last)

	assert.Empty(t, r.ConnectionsOf(userID))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	c := newFakeConn(userID, "alice")
	r.Register(c)

	removed, last := r.Unregister(userID, c.ID())
	require.True(t, removed)
	require.True(t, last)

	removed, last = r.Unregister(userID, c.ID())
	assert.False(t, removed, "second unregister must be a no-op")
	assert.False(t, last)
}

func TestCountIsDistinctUsers(t *testing.T) {
	r := NewRegistry()

	alice := uuid.New()
	bob := uuid.New()
	r.Register(newFakeConn(alice, "alice"))
	r.Register(newFakeConn(alice, "alice"))
	r.Register(newFakeConn(bob, "bob"))

	assert.Equal(t, 2, r.Count(), "count is users, not connections")
	assert.Len(t, r.AllConns(), 3)
}

func TestConnectionsOfUnknownUserIsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.ConnectionsOf(uuid.New()))
}

// Concurrent connects and disconnects of one user must yield exactly one
// first-connection and one last-connection transition.
func TestRegisterUnregisterAtomicPerUser(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	const n = 32
	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = newFakeConn(userID, "alice")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0

	for _, c := range conns {
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			if r.Register(c) {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()
	assert.Equal(t, 1, firsts, "exactly one register may observe first")

	lasts := 0
	for _, c := range conns {
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			if _, last := r.Unregister(userID, c.ID()); last {
				mu.Lock()
				lasts++
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()
	assert.Equal(t, 1, lasts, "exactly one unregister may observe last")
	assert.Equal(t, 0, r.Count())
}
