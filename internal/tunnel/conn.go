package tunnel

import (
	"context"
	"net"
	"sync"

	"github.com/wtun-io/wtun/internal/protocol"
	"github.com/wtun-io/wtun/internal/util"
)

// Tuning constants.
const (
	maxPayloadSize  = 16 * 1024 // 16 KB per DATA frame payload
	inboxBufferSize = 64        // per-connection inbox channel capacity
)

// Conn holds the complete lifecycle state for one logical connection.
// It is goroutine-local — only the owning goroutine calls its methods.
type Conn struct {
	// Identity
	id string

	// Lifecycle
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// Communication
	inbox chan *protocol.Frame // fed by the session's frame dispatch
	tr    Transport            // shared, thread-safe sender

	// TCP side
	tcpConn net.Conn
}

// newConn creates a Conn without a TCP connection (relay side — the TCP
// dial happens after the connect packet is accepted).
func newConn(parentCtx context.Context, id string, tr Transport) *Conn {
	ctx, cancel := context.WithCancel(parentCtx)
	return &Conn{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		inbox:  make(chan *protocol.Frame, inboxBufferSize),
		tr:     tr,
	}
}

// newConnWithTCP creates a Conn with an already-accepted TCP connection
// (client side, where the local accept happens first).
func newConnWithTCP(parentCtx context.Context, id string, tr Transport, conn net.Conn) *Conn {
	c := newConn(parentCtx, id, tr)
	c.tcpConn = conn
	return c
}

// runAsRelay is the complete lifecycle for a relay-side connection:
// dial the negotiated target, then bridge bidirectionally. Frames that
// arrive while the dial is in flight wait in the inbox.
func (c *Conn) runAsRelay(targetAddr string) {
	defer c.cleanup()

	conn, err := net.Dial("tcp", targetAddr)
	if err != nil {
		util.LogWarning("[%s] TCP dial failed: %v", c.id, err)
		return
	}
	c.tcpConn = conn
	util.Stats.AddConn()
	util.LogDebug("[%s] TCP connected to %s", c.id, targetAddr)

	go c.pumpTCPToTunnel()
	c.pumpTunnelToTCP()
}

// runAsClient is the complete lifecycle for a client-side connection.
// It already holds a TCP connection from accept; the connect packet was
// sent by the session before this goroutine started.
func (c *Conn) runAsClient() {
	defer c.cleanup()

	util.Stats.AddConn()

	go c.pumpTCPToTunnel()
	c.pumpTunnelToTCP()
}

// pumpTunnelToTCP drains the inbox, writing DATA payloads to the TCP side
// until CLOSE, a write error, or context cancellation.
func (c *Conn) pumpTunnelToTCP() {
	for {
		select {
		case f := <-c.inbox:
			switch f.Type {
			case protocol.FrameData:
				if _, err := c.tcpConn.Write(f.Payload); err != nil {
					util.LogDebug("[%s] TCP write error: %v", c.id, err)
					return
				}
			case protocol.FrameClose:
				util.LogDebug("[%s] received CLOSE", c.id)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// pumpTCPToTunnel reads from the TCP connection and sends DATA frames.
// It uses a blocking Read; cleanup() closes the TCP connection to unblock it.
func (c *Conn) pumpTCPToTunnel() {
	defer c.cleanup()

	buf := make([]byte, maxPayloadSize)
	for {
		n, err := c.tcpConn.Read(buf)

		if n > 0 {
			payload := make([]byte, n)
			copy(payload, buf[:n])
			c.tr.SendFrame(&protocol.Frame{Type: protocol.FrameData, ConnID: c.id, Payload: payload})
		}

		if err != nil {
			select {
			case <-c.ctx.Done():
				// Already shutting down — no need to log.
			default:
				util.LogDebug("[%s] TCP read error: %v", c.id, err)
			}
			return
		}
	}
}

// cleanup consolidates all shutdown actions behind sync.Once so that
// regardless of which goroutine exits first, resources are released
// exactly once and the peer is notified with a single CLOSE frame.
func (c *Conn) cleanup() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.tcpConn != nil {
			c.tcpConn.Close()
		}
		c.tr.SendFrame(&protocol.Frame{Type: protocol.FrameClose, ConnID: c.id})
		util.Stats.RemoveConn()
		util.LogDebug("[%s] connection cleanup complete", c.id)
	})
}
