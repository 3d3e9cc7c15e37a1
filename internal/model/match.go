// internal/model/match.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "SCHEDULED"
	MatchInProgress MatchStatus = "IN_PROGRESS"
	MatchPaused     MatchStatus = "PAUSED"
	MatchCompleted  MatchStatus = "COMPLETED"
)

// Valid reports whether the status value is known. Transitions between
// statuses are deliberately unconstrained so corrections (e.g. a postponed
// match going back to SCHEDULED) stay possible.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchInProgress, MatchPaused, MatchCompleted:
		return true
	}
	return false
}

type ViewerRole string

const (
	RoleViewer ViewerRole = "VIEWER"
	RoleAdmin  ViewerRole = "ADMIN"
	RoleCoach  ViewerRole = "COACH"
)

// MatchViewer is one connection watching a match. Multiple connections from
// the same user count as distinct viewers.
type MatchViewer struct {
	UserID      uuid.UUID  `json:"userId"`
	DisplayName string     `json:"displayName"`
	Role        ViewerRole `json:"role"`
}

type Score struct {
	HomeGoals int `json:"homeGoals"`
	AwayGoals int `json:"awayGoals"`
}

// MatchSnapshot is a read-only copy of a live match room's state.
type MatchSnapshot struct {
	MatchID    string        `json:"matchId"`
	Status     MatchStatus   `json:"status"`
	Viewers    []MatchViewer `json:"viewers"`
	LastScore  *Score        `json:"lastScore,omitempty"`
	LastUpdate time.Time     `json:"lastUpdate"`
}
