package protocol

// Frame type constants.
const (
	FrameData  uint8 = 0x01 // payload bytes for an open logical connection
	FrameClose uint8 = 0x02 // logical connection close notification
)

// FrameHeaderSize is the fixed header size: Type(1) + ConnID(6).
const FrameHeaderSize = 1 + ConnIDLen

// Frame carries logical-connection traffic once a connection has been
// opened by a connect packet. Frames travel as binary WebSocket messages;
// the authenticated text packets (handshake/connect) travel as text
// messages, so the two never collide on the wire.
type Frame struct {
	Type    uint8  // FrameData or FrameClose
	ConnID  string // the 6-char id assigned by the connect packet
	Payload []byte // only used for FrameData
}
