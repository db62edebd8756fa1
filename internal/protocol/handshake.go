package protocol

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/wtun-io/wtun/internal/util"
)

// ReplayWindowMillis is the maximum accepted age of a handshake timestamp.
// The check is one-sided: a stale packet is rejected, a timestamp from the
// future is not (clock-skew tolerance in that direction is unbounded).
const ReplayWindowMillis = 5000

const (
	nowPrefix    = "NOW "
	targetPrefix = "TARGET "
)

// BuildHandshake builds a handshake packet for the given forward target,
// timestamped with the current wall clock:
//
//	AUTH <signature>
//	NOW <unix-epoch-milliseconds>
//	TARGET <host:port | [ipv6]:port>
func BuildHandshake(secret string, target netip.AddrPort) string {
	return BuildHandshakeAt(secret, util.TimeMillis(), target)
}

// BuildHandshakeAt is BuildHandshake with an explicit timestamp.
func BuildHandshakeAt(secret string, nowMillis int64, target netip.AddrPort) string {
	body := fmt.Sprintf("NOW %d\nTARGET %s", nowMillis, target.String())
	return BuildEnvelope(secret, body)
}

// ParseHandshake verifies and parses a handshake packet against the current
// wall clock, returning the negotiated forward target.
func ParseHandshake(secret string, packet []byte) (netip.AddrPort, error) {
	return ParseHandshakeAt(secret, util.TimeMillis(), packet)
}

// ParseHandshakeAt is ParseHandshake evaluated against a caller-supplied
// clock reading (milliseconds since epoch). The same packet bytes parse
// successfully only while nowMillis is within ReplayWindowMillis of the
// embedded timestamp.
func ParseHandshakeAt(secret string, nowMillis int64, packet []byte) (netip.AddrPort, error) {
	lines, err := ParseEnvelope(secret, packet)
	if err != nil {
		return netip.AddrPort{}, err
	}

	if len(lines) < 2 {
		return netip.AddrPort{}, fmt.Errorf("%w: want 2 body lines, got %d", ErrNotHandshake, len(lines))
	}
	if !strings.HasPrefix(lines[0], nowPrefix) || len(lines[0]) <= len(nowPrefix) {
		return netip.AddrPort{}, fmt.Errorf("%w: bad NOW line", ErrNotHandshake)
	}
	if !strings.HasPrefix(lines[1], targetPrefix) || len(lines[1]) <= len(targetPrefix) {
		return netip.AddrPort{}, fmt.Errorf("%w: bad TARGET line", ErrNotHandshake)
	}

	packetMillis, err := strconv.ParseInt(lines[0][len(nowPrefix):], 10, 64)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, lines[0][len(nowPrefix):])
	}

	if nowMillis-packetMillis > ReplayWindowMillis {
		return netip.AddrPort{}, fmt.Errorf("%w: packet is %dms old", ErrHandshakeExpired, nowMillis-packetMillis)
	}

	target, err := netip.ParseAddrPort(lines[1][len(targetPrefix):])
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %q", ErrInvalidTarget, lines[1][len(targetPrefix):])
	}

	return target, nil
}
