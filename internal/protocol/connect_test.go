package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/wtun-io/wtun/internal/util"
)

// TestBuildConnectKnownVector pins the full packet layout to a fixed vector.
func TestBuildConnectKnownVector(t *testing.T) {
	want := "AUTH +cdQQVGtyqj7KxTS5mPEwvpRGhRuctCM3pa9GsTYGZA=\nNEW CONNECTION XnjEa2"

	if got := buildConnectPacket("eeovgrg", "XnjEa2"); got != want {
		t.Errorf("buildConnectPacket:\n got %q\nwant %q", got, want)
	}
}

func TestParseConnectKnownVector(t *testing.T) {
	packet := []byte("AUTH +l0yOYsTR0oqvj7//0iO24WjmdxRKNmMwVhXZpVLwvY=\nNEW CONNECTION 37keeU")

	id, err := ParseConnect("fneo0ivb", packet)
	if err != nil {
		t.Fatalf("ParseConnect failed: %v", err)
	}
	if id != "37keeU" {
		t.Errorf("id = %q, want %q", id, "37keeU")
	}

	// Same bytes, slightly different secret.
	if _, err := ParseConnect("fneo0ib", packet); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("wrong secret: got %v, want ErrAuthFailed", err)
	}

	// Same bytes, one signature character flipped.
	tampered := []byte(strings.Replace(string(packet), "vj7//", "vj77/", 1))
	if _, err := ParseConnect("fneo0ivb", tampered); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("tampered signature: got %v, want ErrAuthFailed", err)
	}
}

func TestConnectRoundTrip(t *testing.T) {
	id, packet := BuildConnect("secret")

	got, err := ParseConnect("secret", []byte(packet))
	if err != nil {
		t.Fatalf("ParseConnect failed: %v", err)
	}
	if got != id {
		t.Errorf("id mismatch: got %q, want %q", got, id)
	}
}

// TestConnectIDShape verifies the generated id contract: length exactly 6,
// characters drawn from the declared alphabet.
func TestConnectIDShape(t *testing.T) {
	for range 100 {
		id, _ := BuildConnect("secret")

		if len(id) != ConnIDLen {
			t.Fatalf("id %q has length %d, want %d", id, len(id), ConnIDLen)
		}
		for _, r := range id {
			if !strings.ContainsRune(util.RandAlphabet, r) {
				t.Fatalf("id %q contains %q, not in alphabet", id, r)
			}
		}
	}
}

func TestConnectBodyShape(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"handshake body", "NOW 1517476212983\nTARGET 192.168.1.1:443", ErrNotConnect},
		{"missing prefix", "CONNECTION abc123", ErrNotConnect},
		{"lowercase prefix", "new connection abc123", ErrNotConnect},
		{"id too short", "NEW CONNECTION abc", ErrInvalidConnID},
		{"id too long", "NEW CONNECTION abc1234", ErrInvalidConnID},
		{"id missing", "NEW CONNECTION ", ErrInvalidConnID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			packet := []byte(BuildEnvelope("secret", tc.body))
			_, err := ParseConnect("secret", packet)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
