package tunnel

import (
	"bytes"
	"sync"

	"github.com/wtun-io/wtun/internal/protocol"
)

// Compile-time interface check.
var _ Transport = (*mockTransport)(nil)

// mockTransport implements Transport for in-process testing, recording
// everything the session under test sends.
type mockTransport struct {
	mu      sync.Mutex
	packets []string
	frames  []*protocol.Frame
	done    chan struct{}
	once    sync.Once
}

func newMockTransport() *mockTransport {
	return &mockTransport{done: make(chan struct{})}
}

func (m *mockTransport) SendPacket(packet string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packets = append(m.packets, packet)
}

func (m *mockTransport) SendFrame(f *protocol.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, f)
}

func (m *mockTransport) Done() <-chan struct{} {
	return m.done
}

func (m *mockTransport) Close() {
	m.once.Do(func() { close(m.done) })
}

// Packets returns a snapshot of all control packets sent so far.
func (m *mockTransport) Packets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.packets...)
}

// hasDataFrame reports whether a DATA frame with the given id and payload
// has been sent.
func (m *mockTransport) hasDataFrame(id string, payload []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.frames {
		if f.Type == protocol.FrameData && f.ConnID == id && bytes.Equal(f.Payload, payload) {
			return true
		}
	}
	return false
}

// hasCloseFrame reports whether a CLOSE frame with the given id has been sent.
func (m *mockTransport) hasCloseFrame(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.frames {
		if f.Type == protocol.FrameClose && f.ConnID == id {
			return true
		}
	}
	return false
}
