package transport

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/wtun-io/wtun/internal/util"
)

// sendBufferSize is the outgoing message channel capacity.
const sendBufferSize = 64

// outMessage pairs a WebSocket message kind with its payload.
type outMessage struct {
	kind int
	data []byte
}

// sender is a goroutine-based writer that serializes all writes to a single
// WebSocket connection.
type sender struct {
	inbox chan outMessage
}

// newSender creates a sender and starts the background loop. The loop exits
// when ctx is cancelled or a write fails.
func newSender(ctx context.Context, conn *websocket.Conn) *sender {
	s := &sender{
		inbox: make(chan outMessage, sendBufferSize),
	}

	go s.loop(ctx, conn)

	return s
}

// loop is the single-writer goroutine.
func (s *sender) loop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case msg := <-s.inbox:
			if err := conn.WriteMessage(msg.kind, msg.data); err != nil {
				util.LogError("failed to send message (%d bytes): %v", len(msg.data), err)
				return
			}
			util.Stats.AddSent(len(msg.data))

		case <-ctx.Done():
			// Best-effort close notification before the connection goes away.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// send enqueues a message for transmission. It blocks if the internal
// buffer is full and returns silently when ctx is already cancelled.
func (s *sender) send(ctx context.Context, msg outMessage) {
	select {
	case s.inbox <- msg:
	case <-ctx.Done():
	}
}
