// internal/model/presence.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)

// Valid reports whether the status is one of the three known values.
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresenceOnline, PresenceAway, PresenceOffline:
		return true
	}
	return false
}

// UserPresence is the live online/away/offline state of one user.
// A user is online whenever at least one connection is registered;
// away/offline are only set by an explicit client signal.
type UserPresence struct {
	UserID   uuid.UUID      `json:"userId"`
	Status   PresenceStatus `json:"status"`
	LastSeen time.Time      `json:"lastSeen"`
}
