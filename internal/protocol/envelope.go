package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// authPrefix opens the first line of every authenticated packet.
const authPrefix = "AUTH "

// BuildEnvelope wraps an already-formatted body (lines joined by "\n", no
// trailing newline) in an authenticated envelope:
//
//	AUTH <base64(HMAC-SHA256(secret, body))>
//	<body>
func BuildEnvelope(secret, body string) string {
	return authPrefix + Sign(secret, body) + "\n" + body
}

// ParseEnvelope verifies the envelope of packet and returns the body lines
// (everything after the AUTH line). The packet bytes come from an untrusted
// peer, so every check precedes the indexing it guards.
func ParseEnvelope(secret string, packet []byte) ([]string, error) {
	if len(packet) < 4 || string(packet[:4]) != "AUTH" {
		return nil, fmt.Errorf("%w: missing AUTH prefix", ErrMalformedPacket)
	}
	if !utf8.Valid(packet) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrMalformedPacket)
	}

	lines := strings.Split(string(packet), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: missing body", ErrMalformedPacket)
	}

	body := strings.Join(lines[1:], "\n")
	if !verifyLine(lines[0], authPrefix+Sign(secret, body)) {
		return nil, ErrAuthFailed
	}

	return lines[1:], nil
}
