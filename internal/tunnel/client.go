package tunnel

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/wtun-io/wtun/internal/protocol"
	"github.com/wtun-io/wtun/internal/util"
)

// ClientSession owns the client side of an established channel. It sends
// the handshake, opens a logical connection per accepted local TCP
// connection, and routes inbound frames.
type ClientSession struct {
	ctx    context.Context
	tr     Transport
	secret string
	mux    *Mux
}

// NewClientSession creates a client session over a ready transport.
func NewClientSession(ctx context.Context, tr Transport, secret string) *ClientSession {
	return &ClientSession{
		ctx:    ctx,
		tr:     tr,
		secret: secret,
		mux:    NewMux(),
	}
}

// Handshake sends the handshake packet negotiating the forward target.
// The relay answers misbehavior by closing the channel, not with a reply,
// so there is nothing to wait for here.
func (s *ClientSession) Handshake(target netip.AddrPort) {
	s.tr.SendPacket(protocol.BuildHandshake(s.secret, target))
}

// Open starts a logical connection for an accepted local TCP connection
// and returns its id. The connect packet is enqueued before the bridging
// goroutine starts so it precedes any DATA frame for the same id.
func (s *ClientSession) Open(tcpConn net.Conn) string {
	id, packet := protocol.BuildConnect(s.secret)

	c := newConnWithTCP(s.ctx, id, s.tr, tcpConn)
	s.mux.register(c)
	s.tr.SendPacket(packet)
	go c.runAsClient()

	return id
}

// HandleControl handles control packets from the relay. The relay never
// sends any, so whatever arrives is logged and dropped.
func (s *ClientSession) HandleControl(packet []byte) error {
	util.LogWarning("unexpected control packet from relay (%d bytes), dropping", len(packet))
	return nil
}

// HandleFrame routes one data frame to its logical connection.
func (s *ClientSession) HandleFrame(f *protocol.Frame, err error) {
	if err != nil {
		util.LogDebug("frame decode failed: %v", err)
		return
	}
	if !s.mux.deliver(f) {
		util.LogDebug("[%s] unknown connection id, dropping frame", f.ConnID)
	}
}

// ListenAndServe starts the client-side local service on localPort. For
// each accepted connection it opens a logical connection over the channel.
// It blocks until ctx is cancelled.
func (s *ClientSession) ListenAndServe(localPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", localPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	// Close the listener when context is done so Accept() returns an error.
	go func() {
		<-s.ctx.Done()
		listener.Close()
	}()

	util.LogInfo("local service listening on %s", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return nil // normal shutdown
			default:
				return fmt.Errorf("accept error: %w", err)
			}
		}

		id := s.Open(conn)
		util.LogDebug("[%s] new connection from %s", id, conn.RemoteAddr())
	}
}
