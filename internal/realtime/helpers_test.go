package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"live-service/internal/model"
)

// fakeConn is an in-memory Conn that records every frame it receives.
type fakeConn struct {
	id     string
	userID uuid.UUID
	name   string

	mu     sync.Mutex
	frames []model.ClientFrame
	full   bool
}

func newFakeConn(userID uuid.UUID, name string) *fakeConn {
	return &fakeConn{id: uuid.NewString(), userID: userID, name: name}
}

func (c *fakeConn) ID() string          { return c.id }
func (c *fakeConn) UserID() uuid.UUID   { return c.userID }
func (c *fakeConn) DisplayName() string { return c.name }

func (c *fakeConn) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	var f model.ClientFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		panic(err)
	}
	c.frames = append(c.frames, f)
	return true
}

// received returns the frames of one event type, in arrival order.
func (c *fakeConn) received(eventType string) []model.ClientFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.ClientFrame
	for _, f := range c.frames {
		if f.Type == eventType {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) count(eventType string) int {
	return len(c.received(eventType))
}

// lastPayload decodes the most recent frame of an event type into dst.
func (c *fakeConn) lastPayload(t *testing.T, eventType string, dst interface{}) {
	t.Helper()
	frames := c.received(eventType)
	if len(frames) == 0 {
		t.Fatalf("no %q frame received", eventType)
	}
	if err := json.Unmarshal(frames[len(frames)-1].Data, dst); err != nil {
		t.Fatalf("decode %q payload: %v", eventType, err)
	}
}

// captureTransport records published envelopes and lets tests inject
// envelopes as if they arrived from another process.
type captureTransport struct {
	mu        sync.Mutex
	published []*model.Envelope
	fn        func(*model.Envelope)
}

func (tr *captureTransport) Publish(_ context.Context, env *model.Envelope) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	cp := *env
	tr.published = append(tr.published, &cp)
	return nil
}

func (tr *captureTransport) Subscribe(_ context.Context, fn func(*model.Envelope)) error {
	tr.fn = fn
	return nil
}

func (tr *captureTransport) Close() error { return nil }

func (tr *captureTransport) last() *model.Envelope {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.published) == 0 {
		return nil
	}
	return tr.published[len(tr.published)-1]
}

func newTestHub(t *testing.T) (*Hub, *captureTransport) {
	t.Helper()
	tr := &captureTransport{}
	registry := NewRegistry()
	hub := NewHub(registry, NewPresenceTracker(registry), NewRoomManager(), NewMatchStateStore(), tr, zap.NewNop())
	return hub, tr
}

// frame builds an inbound client frame for HandleFrame.
func frame(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	raw, err := json.Marshal(model.ClientFrame{Type: eventType, Data: data})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return raw
}
