// internal/realtime/match.go
package realtime

import (
	"sync"
	"time"

	"live-service/internal/model"
)

// matchState is the ephemeral per-match room state: who is watching, the
// lifecycle status and the last relayed score. Mutations take the per-match
// lock only. closed marks a state whose last viewer left and that was
// unlinked from the store; a join that raced the reclaim retries against a
// fresh instance, same as room joins racing room GC.
type matchState struct {
	mu         sync.Mutex
	closed     bool
	status     model.MatchStatus
	viewers    map[string]model.MatchViewer // keyed by connection id
	lastScore  *model.Score
	lastUpdate time.Time
}

// MatchStateStore creates match state lazily on first join and deletes it
// when the last viewer leaves. Nothing here is persisted; the system of
// record for matches lives elsewhere.
type MatchStateStore struct {
	mu      sync.RWMutex
	matches map[string]*matchState
}

func NewMatchStateStore() *MatchStateStore {
	return &MatchStateStore{matches: make(map[string]*matchState)}
}

func (s *MatchStateStore) get(matchID string) *matchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches[matchID]
}

// unlink removes the state from the store if it is still the linked one.
// The caller must have marked it closed under its own lock first.
func (s *MatchStateStore) unlink(matchID string, st *matchState) {
	s.mu.Lock()
	if s.matches[matchID] == st {
		delete(s.matches, matchID)
	}
	s.mu.Unlock()
}

// AddViewer records a viewer entry for the connection, creating the match
// state if needed, and returns the new viewer total.
func (s *MatchStateStore) AddViewer(matchID, connID string, viewer model.MatchViewer) int {
	if viewer.Role == "" {
		viewer.Role = model.RoleViewer
	}

	for {
		s.mu.Lock()
		st := s.matches[matchID]
		if st == nil {
			st = &matchState{
				status:  model.MatchScheduled,
				viewers: make(map[string]model.MatchViewer),
			}
			s.matches[matchID] = st
		}
		s.mu.Unlock()

		st.mu.Lock()
		if st.closed {
			st.mu.Unlock()
			continue // lost a race with the last viewer leaving, retry fresh
		}
		st.viewers[connID] = viewer
		st.lastUpdate = time.Now().UTC()
		total := len(st.viewers)
		st.mu.Unlock()
		return total
	}
}

// RemoveViewer drops the connection's viewer entry and returns the remaining
// total. The state is marked closed and unlinked when the viewer map
// empties, in that order, so concurrent joins cannot land in it.
func (s *MatchStateStore) RemoveViewer(matchID, connID string) (total int, removed bool) {
	st := s.get(matchID)
	if st == nil {
		return 0, false
	}

	st.mu.Lock()
	if _, ok := st.viewers[connID]; !ok {
		total = len(st.viewers)
		st.mu.Unlock()
		return total, false
	}
	delete(st.viewers, connID)
	total = len(st.viewers)
	if total == 0 {
		st.closed = true
	}
	st.mu.Unlock()

	if total == 0 {
		s.unlink(matchID, st)
	}
	return total, true
}

// SetScore updates the last known score. The relay does not validate score
// values; correctness is the calling layer's concern.
func (s *MatchStateStore) SetScore(matchID string, score model.Score, at time.Time) bool {
	st := s.get(matchID)
	if st == nil {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return false
	}
	sc := score
	st.lastScore = &sc
	st.lastUpdate = at
	return true
}

// SetStatus updates the lifecycle status. Any status may follow any status.
func (s *MatchStateStore) SetStatus(matchID string, status model.MatchStatus, at time.Time) bool {
	st := s.get(matchID)
	if st == nil {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return false
	}
	st.status = status
	st.lastUpdate = at
	return true
}

func (s *MatchStateStore) Snapshot(matchID string) (*model.MatchSnapshot, bool) {
	st := s.get(matchID)
	if st == nil {
		return nil, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return nil, false
	}

	snap := &model.MatchSnapshot{
		MatchID:    matchID,
		Status:     st.status,
		Viewers:    make([]model.MatchViewer, 0, len(st.viewers)),
		LastUpdate: st.lastUpdate,
	}
	for _, v := range st.viewers {
		snap.Viewers = append(snap.Viewers, v)
	}
	if st.lastScore != nil {
		sc := *st.lastScore
		snap.LastScore = &sc
	}
	return snap, true
}

// Delete reclaims a match's state regardless of remaining viewers, used by
// the room GC hook when the backing room empties.
func (s *MatchStateStore) Delete(matchID string) {
	st := s.get(matchID)
	if st == nil {
		return
	}

	st.mu.Lock()
	st.closed = true
	st.mu.Unlock()

	s.unlink(matchID, st)
}

func (s *MatchStateStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
