// Package protocol implements the authenticated packet layer of the tunnel:
// an HMAC-SHA256 envelope shared by all packet kinds, the handshake packet
// (replay-protected forward-target negotiation), the connect packet (new
// logical connection request), and the binary data frames exchanged once a
// logical connection is open.
//
// All parse entry points operate on untrusted peer input and return typed
// errors — they never panic on malformed bytes.
package protocol

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Sign computes HMAC-SHA256 over the UTF-8 bytes of message, keyed with the
// UTF-8 bytes of secret, and returns the base64 encoding of the raw MAC.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// verifyLine recomputes the expected value and compares it against got in
// constant time. Plain string equality would leak a timing channel on
// attacker-controlled input.
func verifyLine(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
