// internal/realtime/presence.go
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"live-service/internal/model"
)

// PresenceTracker derives each user's online/away/offline state. Online is
// implied by registry occupancy; away and an early offline are explicit
// client signals, accepted only while the user still has a connection and
// superseded by the next register/unregister transition.
type PresenceTracker struct {
	registry *Registry
	mu       sync.RWMutex
	records  map[uuid.UUID]model.UserPresence
}

func NewPresenceTracker(registry *Registry) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		records:  make(map[uuid.UUID]model.UserPresence),
	}
}

// MarkOnline records the online transition for a user's first connection.
func (t *PresenceTracker) MarkOnline(userID uuid.UUID) model.UserPresence {
	rec := model.UserPresence{UserID: userID, Status: model.PresenceOnline, LastSeen: time.Now().UTC()}

	t.mu.Lock()
	t.records[userID] = rec
	t.mu.Unlock()

	return rec
}

// MarkOffline records the offline transition when the last connection
// closes. It overrides any explicit away state.
func (t *PresenceTracker) MarkOffline(userID uuid.UUID) model.UserPresence {
	t.mu.Lock()
	delete(t.records, userID)
	t.mu.Unlock()

	return model.UserPresence{UserID: userID, Status: model.PresenceOffline, LastSeen: time.Now().UTC()}
}

// SetStatus applies an explicit client status signal. A signal from a user
// with zero live connections is a no-op: there is no connection it could
// have come from. The occupancy check happens under the same lock
// MarkOffline deletes under — MarkOffline always follows the registry
// removal, so a record can never be re-inserted after the last connection's
// teardown.
func (t *PresenceTracker) SetStatus(userID uuid.UUID, status model.PresenceStatus) (model.UserPresence, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.registry.ConnectionsOf(userID)) == 0 {
		return model.UserPresence{}, false
	}

	rec := model.UserPresence{UserID: userID, Status: status, LastSeen: time.Now().UTC()}
	t.records[userID] = rec
	return rec, true
}

// Status answers for any user; unknown users are offline.
func (t *PresenceTracker) Status(userID uuid.UUID) model.UserPresence {
	t.mu.RLock()
	rec, ok := t.records[userID]
	t.mu.RUnlock()

	if !ok {
		return model.UserPresence{UserID: userID, Status: model.PresenceOffline}
	}
	return rec
}

// OnlineUsers lists everyone not currently reported offline.
func (t *PresenceTracker) OnlineUsers() []model.UserPresence {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users := make([]model.UserPresence, 0, len(t.records))
	for _, rec := range t.records {
		if rec.Status == model.PresenceOffline {
			continue
		}
		users = append(users, rec)
	}
	return users
}
