// internal/model/envelope.go
package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Envelope is the unit of fan-out. Every broadcast — room, per-user or
// global — is wrapped in one and published on the backbone so that all
// server processes deliver it to their locally-held connections.
//
// Exactly one of Room / RecipientID is set for targeted delivery; when both
// are empty the envelope goes to every live connection (presence events).
type Envelope struct {
	Origin      string          `json:"origin"`
	Room        string          `json:"room,omitempty"`
	RecipientID *uuid.UUID      `json:"recipientId,omitempty"`
	Exclude     string          `json:"exclude,omitempty"`
	Event       string          `json:"event"`
	Data        json.RawMessage `json:"data"`
}

// ClientFrame is the wire format exchanged with clients, inbound and
// outbound: {"type": "<event name>", "data": {...}}.
type ClientFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
