package util

import (
	"fmt"
	"net"
	"net/netip"
)

// ResolveAddrPort converts a "host:port" string into a netip.AddrPort.
// Numeric forms ("10.0.0.1:443", "[fe80::1]:443") parse directly; hostnames
// go through the resolver, which only the client ever does — the wire format
// carries numeric targets.
func ResolveAddrPort(s string) (netip.AddrPort, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap, nil
	}
	tcpAddr, err := net.ResolveTCPAddr("tcp", s)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("cannot resolve %q: %w", s, err)
	}
	return tcpAddr.AddrPort(), nil
}
