package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJoinIsIdempotent(t *testing.T) {
	m := NewRoomManager()
	c := newFakeConn(uuid.New(), "alice")

	assert.True(t, m.Join(c, "match:42"))
	assert.False(t, m.Join(c, "match:42"), "second join is a no-op")
	assert.Equal(t, 1, m.MemberCount("match:42"))
}

func TestLeaveNonMemberIsNoOp(t *testing.T) {
	m := NewRoomManager()
	c := newFakeConn(uuid.New(), "alice")
	m.Join(c, "match:42")

	left, deleted := m.Leave("not-a-member", "match:42")
	assert.False(t, left)
	assert.False(t, deleted)

	left, deleted = m.Leave(c.ID(), "no-such-room")
	assert.False(t, left)
	assert.False(t, deleted)
}

func TestReferenceCountedCleanup(t *testing.T) {
	m := NewRoomManager()

	var gcMu sync.Mutex
	gcd := map[string]int{}
	m.OnEmpty(func(name string) {
		gcMu.Lock()
		gcd[name]++
		gcMu.Unlock()
	})

	const n = 8
	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = newFakeConn(uuid.New(), fmt.Sprintf("user-%d", i))
		m.Join(conns[i], "match:42")
	}
	assert.Equal(t, n, m.MemberCount("match:42"))

	for _, c := range conns {
		m.Leave(c.ID(), "match:42")
	}
	assert.Equal(t, 0, m.RoomCount())
	assert.Equal(t, 1, gcd["match:42"], "GC hook fires exactly once")
}

func TestBroadcastExcludesOriginator(t *testing.T) {
	m := NewRoomManager()
	a := newFakeConn(uuid.New(), "alice")
	b := newFakeConn(uuid.New(), "bob")
	c := newFakeConn(uuid.New(), "carol")
	m.Join(a, "team:7")
	m.Join(b, "team:7")
	m.Join(c, "team:7")

	frame := []byte(`{"type":"team:message-received","data":{}}`)
	delivered := m.Broadcast("team:7", frame, a.ID())

	assert.Equal(t, 2, delivered)
	assert.Zero(t, a.count("team:message-received"))
	assert.Equal(t, 1, b.count("team:message-received"))
	assert.Equal(t, 1, c.count("team:message-received"))
}

func TestBroadcastSkipsSlowConsumerOnly(t *testing.T) {
	m := NewRoomManager()
	a := newFakeConn(uuid.New(), "alice")
	b := newFakeConn(uuid.New(), "bob")
	b.full = true
	m.Join(a, "match:1")
	m.Join(b, "match:1")

	delivered := m.Broadcast("match:1", []byte(`{"type":"x","data":{}}`), "")
	assert.Equal(t, 1, delivered, "full buffers drop, they do not block")
}

func TestRoomsOfTracksMemberships(t *testing.T) {
	m := NewRoomManager()
	c := newFakeConn(uuid.New(), "alice")
	m.Join(c, "match:1")
	m.Join(c, "team:2")

	assert.ElementsMatch(t, []string{"match:1", "team:2"}, m.RoomsOf(c.ID()))

	m.Leave(c.ID(), "match:1")
	assert.ElementsMatch(t, []string{"team:2"}, m.RoomsOf(c.ID()))

	m.Leave(c.ID(), "team:2")
	assert.Empty(t, m.RoomsOf(c.ID()))
}

func TestConcurrentJoinLeave(t *testing.T) {
	m := NewRoomManager()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(uuid.New(), fmt.Sprintf("user-%d", i))
			room := fmt.Sprintf("match:%d", i%4)
			m.Join(c, room)
			m.Broadcast(room, []byte(`{"type":"x","data":{}}`), "")
			m.Leave(c.ID(), room)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, m.RoomCount(), "all rooms reclaimed after the storm")
}

func TestRoomNameHelpers(t *testing.T) {
	assert.Equal(t, "match:42", MatchRoomName("42"))
	assert.Equal(t, "team:7", TeamRoomName("7"))
	assert.Equal(t, "42", MatchIDFromRoom("match:42"))
	assert.Equal(t, "", MatchIDFromRoom("team:7"))
	assert.Equal(t, "7", TeamIDFromRoom("team:7"))
	assert.Equal(t, "", TeamIDFromRoom("match:42"))
}
