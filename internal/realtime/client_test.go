package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientSendDropsWhenBufferFull(t *testing.T) {
	hub, _ := newTestHub(t)
	c := NewClient(hub, nil, uuid.New(), "alice", 8192, zap.NewNop())

	frame := []byte(`{"type":"x","data":{}}`)
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, c.Send(frame), "send %d should fit in the buffer", i)
	}

	assert.False(t, c.Send(frame), "a full buffer drops instead of blocking")
}
