package tunnel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtun-io/wtun/internal/protocol"
)

func TestMuxRegisterAndDeliver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMux()
	c := newConn(ctx, "XnjEa2", newMockTransport())
	m.register(c)

	require.Equal(t, 1, m.Len())

	f := &protocol.Frame{Type: protocol.FrameData, ConnID: "XnjEa2", Payload: []byte("x")}
	require.True(t, m.deliver(f))

	select {
	case got := <-c.inbox:
		assert.Equal(t, f, got)
	default:
		t.Fatal("frame was not delivered to the inbox")
	}
}

func TestMuxDeliverUnknownID(t *testing.T) {
	m := NewMux()

	delivered := m.deliver(&protocol.Frame{Type: protocol.FrameData, ConnID: "nobody"})
	assert.False(t, delivered)
}

func TestMuxAutoCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMux()
	c := newConn(ctx, "XnjEa2", newMockTransport())
	m.register(c)

	c.cancel()

	assert.Eventually(t, func() bool { return m.Len() == 0 },
		time.Second, 10*time.Millisecond, "route should be removed after the conn context ends")
}

func TestMuxDropsWhenInboxFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMux()
	c := newConn(ctx, "XnjEa2", newMockTransport())
	m.register(c)

	// No reader: the inbox fills up, further frames are dropped without blocking.
	f := &protocol.Frame{Type: protocol.FrameData, ConnID: "XnjEa2"}
	for range inboxBufferSize + 10 {
		require.True(t, m.deliver(f))
	}
	assert.Len(t, c.inbox, inboxBufferSize)
}
