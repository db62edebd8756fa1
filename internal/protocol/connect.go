package protocol

import (
	"fmt"
	"strings"

	"github.com/wtun-io/wtun/internal/util"
)

// ConnIDLen is the fixed length of a logical connection identifier.
const ConnIDLen = 6

const connectPrefix = "NEW CONNECTION "

// BuildConnect builds a connect packet with a freshly generated connection
// id and returns both:
//
//	AUTH <signature>
//	NEW CONNECTION <6-char id>
func BuildConnect(secret string) (id, packet string) {
	id = util.RandString(ConnIDLen)
	return id, buildConnectPacket(secret, id)
}

func buildConnectPacket(secret, id string) string {
	return BuildEnvelope(secret, connectPrefix+id)
}

// ParseConnect verifies and parses a connect packet, returning the
// requested connection id.
func ParseConnect(secret string, packet []byte) (string, error) {
	lines, err := ParseEnvelope(secret, packet)
	if err != nil {
		return "", err
	}

	if len(lines) < 1 || !strings.HasPrefix(lines[0], connectPrefix) {
		return "", ErrNotConnect
	}
	if len(lines[0]) != len(connectPrefix)+ConnIDLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidConnID, lines[0][len(connectPrefix):])
	}

	return lines[0][len(connectPrefix):], nil
}
