// internal/model/errors.go
package model

import "errors"

var (
	// ErrAuthentication rejects a connection before registration; the client
	// must reconnect with valid credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrMalformedEvent marks an inbound event with missing or invalid
	// required fields. The event is dropped; the client is not disconnected.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrBackboneUnavailable means the cross-process fan-out substrate cannot
	// be reached. Fatal at startup, degraded-mode after.
	ErrBackboneUnavailable = errors.New("fan-out backbone unavailable")
)
