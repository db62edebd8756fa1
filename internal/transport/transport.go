// Package transport moves authenticated packets and data frames over a
// single WebSocket connection. Every packet or frame is sent as exactly one
// WebSocket message, so the receiving side always hands the parsers one
// complete packet — the message alignment the protocol layer assumes is
// produced here, not by the peer.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wtun-io/wtun/internal/protocol"
	"github.com/wtun-io/wtun/internal/util"
)

// Transport wraps one WebSocket connection, providing a serialized writer
// (gorilla permits a single concurrent writer) and a read loop that
// dispatches inbound messages by kind: text messages are authenticated
// control packets, binary messages are data frames.
//
// Its lifecycle is governed by the connection and the context passed at
// construction time.
type Transport struct {
	conn   *websocket.Conn
	sender *sender

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewTransport creates a Transport over an already-established WebSocket
// connection and starts the writer goroutine.
func NewTransport(ctx context.Context, conn *websocket.Conn) *Transport {
	tCtx, tCancel := context.WithCancel(ctx)

	t := &Transport{
		conn:   conn,
		ctx:    tCtx,
		cancel: tCancel,
	}
	t.sender = newSender(tCtx, conn)

	return t
}

// Done returns a channel that is closed when the Transport is shut down
// (connection closed, read loop exited, or parent context cancelled).
func (t *Transport) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Close shuts down the WebSocket connection. Safe to call multiple times;
// it also unblocks a Serve loop stuck in ReadMessage.
func (t *Transport) Close() error {
	t.cancel()
	var err error
	t.closeOnce.Do(func() {
		err = t.conn.Close()
	})
	return err
}

// SendPacket enqueues an authenticated control packet (handshake/connect)
// as a text message.
func (t *Transport) SendPacket(packet string) {
	t.sender.send(t.ctx, outMessage{kind: websocket.TextMessage, data: []byte(packet)})
}

// SendFrame enqueues a data frame as a binary message.
func (t *Transport) SendFrame(f *protocol.Frame) {
	t.sender.send(t.ctx, outMessage{kind: websocket.BinaryMessage, data: protocol.EncodeFrame(f)})
}

// Serve reads messages until the connection fails or the Transport is
// closed. Text messages are handed to onPacket verbatim; binary messages
// are decoded and handed to onFrame together with any decoding error.
// Serve returns nil on a shutdown initiated by Close or context
// cancellation, and the read error otherwise.
func (t *Transport) Serve(onPacket func(data []byte), onFrame func(f *protocol.Frame, err error)) error {
	defer t.cancel()

	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			select {
			case <-t.ctx.Done():
				return nil // normal shutdown
			default:
				return fmt.Errorf("read message: %w", err)
			}
		}

		util.Stats.AddRecv(len(data))

		switch kind {
		case websocket.TextMessage:
			onPacket(data)
		case websocket.BinaryMessage:
			f, err := protocol.DecodeFrame(data)
			onFrame(f, err)
		default:
			util.LogDebug("ignoring WebSocket message kind %d", kind)
		}
	}
}
