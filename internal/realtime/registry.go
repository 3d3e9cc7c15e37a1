// internal/realtime/registry.go
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Registry maps a user to the set of connections they currently hold open
// (multiple tabs/devices per user) and indexes connections by id. The
// first/last-connection answers from Register/Unregister are computed under
// the same lock as the membership change, so concurrent connects and
// disconnects of one user can never produce duplicate online/offline
// transitions.
type Registry struct {
	mu    sync.RWMutex
	users map[uuid.UUID]map[string]Conn
	byID  map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[uuid.UUID]map[string]Conn),
		byID:  make(map[string]Conn),
	}
}

// Register adds the connection and reports whether it is the user's first.
func (r *Registry) Register(c Conn) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.users[c.UserID()]
	if conns == nil {
		conns = make(map[string]Conn)
		r.users[c.UserID()] = conns
	}
	conns[c.ID()] = c
	r.byID[c.ID()] = c
	return len(conns) == 1
}

// Unregister removes the connection, reporting whether anything was removed
// and whether it was the user's last connection. Calling it again for the
// same connection is a safe no-op.
func (r *Registry) Unregister(userID uuid.UUID, connID string) (removed, last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		return false, false
	}
	if _, ok := conns[connID]; !ok {
		return false, false
	}

	delete(conns, connID)
	delete(r.byID, connID)
	if len(conns) == 0 {
		delete(r.users, userID)
		return true, true
	}
	return true, false
}

// ConnectionsOf returns the user's live connections, empty when offline.
func (r *Registry) ConnectionsOf(userID uuid.UUID) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.users[userID])
}

func (r *Registry) Get(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[connID]
	return c, ok
}

// Count is the number of distinct connected users, not connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *Registry) AllConns() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.byID)
}

func (r *Registry) UserIDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.users)
}
