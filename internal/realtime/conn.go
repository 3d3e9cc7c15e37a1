// internal/realtime/conn.go
package realtime

import "github.com/google/uuid"

// Conn is one live client connection as seen by the realtime core. The
// websocket client implements it; tests substitute an in-memory fake.
type Conn interface {
	ID() string
	UserID() uuid.UUID
	DisplayName() string

	// Send queues a frame for delivery and reports false when the client's
	// buffer is full. Delivery is best-effort: a slow consumer loses frames
	// rather than delaying anyone else.
	Send(frame []byte) bool
}
