// Package transport is the cross-process fan-out substrate. The realtime
// hub publishes every broadcast through a Transport and delivers inbound
// envelopes from it to locally-held connections, so a deployment of N
// processes shares one logical room view.
package transport

import (
	"context"

	"live-service/internal/model"
)

type Transport interface {
	// Publish sends an envelope to every subscribed process (including the
	// publisher, which filters its own origin on receipt).
	Publish(ctx context.Context, env *model.Envelope) error

	// Subscribe starts delivering remote envelopes to fn. It returns an
	// error when the substrate cannot be reached, which is fatal at startup.
	Subscribe(ctx context.Context, fn func(*model.Envelope)) error

	Close() error
}

// Local is the single-process implementation: there are no remote peers, so
// publishing is a no-op and nothing is ever received. The hub always
// delivers to local connections directly before publishing.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (*Local) Publish(context.Context, *model.Envelope) error         { return nil }
func (*Local) Subscribe(context.Context, func(*model.Envelope)) error { return nil }
func (*Local) Close() error                                           { return nil }
