package protocol

import "errors"

// Typed failures returned by the packet parsers. Callers match with
// errors.Is; wrapped variants carry the offending detail.
var (
	// ErrMalformedPacket — input is not an authenticated packet at all:
	// missing AUTH prefix, invalid UTF-8, or too few lines.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrAuthFailed — the recomputed signature does not match the AUTH line.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotHandshake — envelope verified but body is not handshake-shaped.
	ErrNotHandshake = errors.New("not a handshake packet")

	// ErrInvalidTimestamp — the NOW line does not carry a parsable integer.
	ErrInvalidTimestamp = errors.New("invalid handshake timestamp")

	// ErrHandshakeExpired — handshake timestamp is outside the replay window.
	ErrHandshakeExpired = errors.New("handshake expired")

	// ErrInvalidTarget — the TARGET line does not carry a parsable endpoint.
	ErrInvalidTarget = errors.New("invalid target address")

	// ErrNotConnect — envelope verified but body is not connect-shaped.
	ErrNotConnect = errors.New("not a connect packet")

	// ErrInvalidConnID — connection identifier has the wrong length.
	ErrInvalidConnID = errors.New("invalid connection id")

	// ErrMalformedFrame — binary frame shorter than its fixed header.
	ErrMalformedFrame = errors.New("malformed frame")
)
