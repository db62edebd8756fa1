// Package tunnel manages the session layer of an established channel:
// handshake sequencing, the connID route table, and the per-connection
// goroutines that bridge logical connections to TCP sockets.
package tunnel

import (
	"sync"

	"github.com/wtun-io/wtun/internal/protocol"
	"github.com/wtun-io/wtun/internal/util"
)

// Transport is the subset of the transport layer the tunnel needs.
// *transport.Transport implements it; tests substitute a mock.
type Transport interface {
	SendPacket(packet string)
	SendFrame(f *protocol.Frame)
	Done() <-chan struct{}
}

// Mux maintains the connID → *Conn route table for one channel.
// Inbound frames are routed to the matching connection's inbox.
type Mux struct {
	mu     sync.Mutex
	routes map[string]*Conn
}

// NewMux creates an empty route table.
func NewMux() *Mux {
	return &Mux{
		routes: make(map[string]*Conn),
	}
}

// register adds a connection to the route table and starts an auto-cleanup
// goroutine that removes the entry when the connection's context is done.
func (m *Mux) register(c *Conn) {
	m.mu.Lock()
	m.routes[c.id] = c
	m.mu.Unlock()

	go func() {
		<-c.ctx.Done()
		m.mu.Lock()
		delete(m.routes, c.id)
		m.mu.Unlock()
	}()
}

// lookup reports whether a connection id is currently routed.
func (m *Mux) lookup(id string) (*Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.routes[id]
	return c, ok
}

// deliver routes a frame to the matching connection's inbox.
// Returns true if a route was found.
func (m *Mux) deliver(f *protocol.Frame) bool {
	c, ok := m.lookup(f.ConnID)
	if !ok {
		return false
	}

	select {
	case c.inbox <- f:
	default:
		util.LogDebug("[%s] inbox full, dropping frame", f.ConnID)
	}
	return true
}

// Len returns the number of live routes.
func (m *Mux) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.routes)
}
