package tunnel

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"golang.org/x/time/rate"

	"github.com/wtun-io/wtun/internal/protocol"
	"github.com/wtun-io/wtun/internal/util"
)

// RelaySession owns one authenticated client channel on the relay side.
//
// It enforces the protocol sequencing that the packet layer itself does not:
// the first control packet must be a valid handshake; connect packets are
// only honored afterwards. Any packet that fails authentication closes the
// session — everything on this channel comes from an untrusted peer until
// the handshake has been verified.
type RelaySession struct {
	ctx     context.Context
	tr      Transport
	secret  string
	limiter *rate.Limiter
	mux     *Mux

	mu          sync.Mutex
	established bool
	target      netip.AddrPort
}

// NewRelaySession creates a session awaiting its handshake. connectRate and
// connectBurst bound how fast one channel may open logical connections.
func NewRelaySession(ctx context.Context, tr Transport, secret string, connectRate float64, connectBurst int) *RelaySession {
	return &RelaySession{
		ctx:     ctx,
		tr:      tr,
		secret:  secret,
		limiter: rate.NewLimiter(rate.Limit(connectRate), connectBurst),
		mux:     NewMux(),
	}
}

// Established reports whether the handshake has been accepted.
func (s *RelaySession) Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.established
}

// Target returns the negotiated forward target. Only meaningful once
// Established reports true.
func (s *RelaySession) Target() netip.AddrPort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// HandleControl processes one authenticated control packet. A non-nil
// return means the channel must be torn down.
func (s *RelaySession) HandleControl(packet []byte) error {
	if !s.Established() {
		target, err := protocol.ParseHandshake(s.secret, packet)
		if err != nil {
			return fmt.Errorf("handshake rejected: %w", err)
		}

		s.mu.Lock()
		s.established = true
		s.target = target
		s.mu.Unlock()

		util.LogInfo("tunnel established, forwarding to %s", target)
		return nil
	}

	id, err := protocol.ParseConnect(s.secret, packet)
	if err != nil {
		return fmt.Errorf("connect rejected: %w", err)
	}

	if !s.limiter.Allow() {
		util.LogWarning("[%s] connect admission limit exceeded, dropping", id)
		return nil
	}
	if _, exists := s.mux.lookup(id); exists {
		util.LogWarning("[%s] duplicate connection id, dropping", id)
		return nil
	}

	c := newConn(s.ctx, id, s.tr)
	s.mux.register(c)
	util.LogDebug("[%s] new logical connection", id)
	go c.runAsRelay(s.Target().String())

	return nil
}

// HandleFrame routes one data frame to its logical connection. Frames
// before the handshake or for unknown ids are dropped.
func (s *RelaySession) HandleFrame(f *protocol.Frame, err error) {
	if err != nil {
		util.LogDebug("frame decode failed: %v", err)
		return
	}
	if !s.Established() {
		util.LogDebug("[%s] frame before handshake, dropping", f.ConnID)
		return
	}
	if !s.mux.deliver(f) {
		util.LogDebug("[%s] unknown connection id, dropping frame", f.ConnID)
	}
}
