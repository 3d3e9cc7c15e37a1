// internal/realtime/rooms.go
package realtime

import (
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	matchRoomPrefix = "match:"
	teamRoomPrefix  = "team:"
)

func MatchRoomName(matchID string) string { return matchRoomPrefix + matchID }
func TeamRoomName(teamID string) string   { return teamRoomPrefix + teamID }

// MatchIDFromRoom extracts the match id from a match room name, "" otherwise.
func MatchIDFromRoom(name string) string {
	if strings.HasPrefix(name, matchRoomPrefix) {
		return strings.TrimPrefix(name, matchRoomPrefix)
	}
	return ""
}

func TeamIDFromRoom(name string) string {
	if strings.HasPrefix(name, teamRoomPrefix) {
		return strings.TrimPrefix(name, teamRoomPrefix)
	}
	return ""
}

// room holds one broadcast group's members behind its own lock, so traffic
// in one room never contends with another. closed marks a room that emptied
// and was unlinked; a join that raced the deletion retries against a fresh
// instance.
type room struct {
	mu      sync.RWMutex
	members map[string]Conn
	closed  bool
}

// RoomManager owns room membership. The manager-level lock only guards the
// name→room and connection→rooms indexes; membership mutation and broadcast
// snapshots take the per-room lock.
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]*room
	byConn  map[string]map[string]struct{}
	onEmpty func(roomName string)
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]*room),
		byConn: make(map[string]map[string]struct{}),
	}
}

// OnEmpty registers a hook invoked (without locks held) after a room is
// garbage-collected, so layered state such as match rooms can clean up.
func (m *RoomManager) OnEmpty(fn func(roomName string)) { m.onEmpty = fn }

// Join is idempotent; it reports whether membership actually changed.
func (m *RoomManager) Join(c Conn, name string) bool {
	for {
		m.mu.Lock()
		r := m.rooms[name]
		if r == nil {
			r = &room{members: make(map[string]Conn)}
			m.rooms[name] = r
		}
		m.mu.Unlock()

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			continue // lost a race with GC, retry with a fresh room
		}
		_, exists := r.members[c.ID()]
		if !exists {
			r.members[c.ID()] = c
		}
		r.mu.Unlock()

		if !exists {
			m.mu.Lock()
			set := m.byConn[c.ID()]
			if set == nil {
				set = make(map[string]struct{})
				m.byConn[c.ID()] = set
			}
			set[name] = struct{}{}
			m.mu.Unlock()
		}
		return !exists
	}
}

// Leave is idempotent; leaving a room one is not in is a no-op. It reports
// whether membership changed and whether the room was garbage-collected.
func (m *RoomManager) Leave(connID, name string) (left, deleted bool) {
	m.mu.RLock()
	r := m.rooms[name]
	m.mu.RUnlock()
	if r == nil {
		return false, false
	}

	r.mu.Lock()
	if _, ok := r.members[connID]; !ok {
		r.mu.Unlock()
		return false, false
	}
	delete(r.members, connID)
	deleted = len(r.members) == 0
	if deleted {
		r.closed = true
	}
	r.mu.Unlock()

	m.mu.Lock()
	if set := m.byConn[connID]; set != nil {
		delete(set, name)
		if len(set) == 0 {
			delete(m.byConn, connID)
		}
	}
	if deleted && m.rooms[name] == r {
		delete(m.rooms, name)
	}
	m.mu.Unlock()

	if deleted && m.onEmpty != nil {
		m.onEmpty(name)
	}
	return true, deleted
}

// Members returns a snapshot of the room's live connections.
func (m *RoomManager) Members(name string) []Conn {
	m.mu.RLock()
	r := m.rooms[name]
	m.mu.RUnlock()
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.members)
}

func (m *RoomManager) MemberCount(name string) int {
	m.mu.RLock()
	r := m.rooms[name]
	m.mu.RUnlock()
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// RoomsOf lists the rooms a connection currently belongs to.
func (m *RoomManager) RoomsOf(connID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Keys(m.byConn[connID])
}

func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Broadcast delivers a frame to every member, optionally excluding the
// originating connection. Sends are non-blocking per recipient; a full
// client buffer drops that recipient's frame only.
func (m *RoomManager) Broadcast(name string, frame []byte, excludeConnID string) int {
	delivered := 0
	for _, c := range m.Members(name) {
		if c.ID() == excludeConnID {
			continue
		}
		if c.Send(frame) {
			delivered++
		}
	}
	return delivered
}
