package protocol

import "fmt"

// EncodeFrame serializes a Frame into a byte slice for transmission.
// The ConnID is written as exactly ConnIDLen bytes.
func EncodeFrame(f *Frame) []byte {
	buf := make([]byte, FrameHeaderSize+len(f.Payload))
	buf[0] = f.Type
	copy(buf[1:FrameHeaderSize], f.ConnID)
	if len(f.Payload) > 0 {
		copy(buf[FrameHeaderSize:], f.Payload)
	}
	return buf
}

// DecodeFrame deserializes a byte slice into a Frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes (need at least %d)", ErrMalformedFrame, len(data), FrameHeaderSize)
	}
	f := &Frame{
		Type:   data[0],
		ConnID: string(data[1:FrameHeaderSize]),
	}
	if len(data) > FrameHeaderSize {
		f.Payload = make([]byte, len(data)-FrameHeaderSize)
		copy(f.Payload, data[FrameHeaderSize:])
	}
	return f, nil
}
