// Package util provides shared utility functions.
package util

import (
	"crypto/rand"
	"math/big"
	"time"
)

// RandAlphabet is the character set for generated identifiers.
const RandAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandString returns a random string of length n drawn from RandAlphabet.
// It reads from crypto/rand: connection ids travel in authenticated packets
// and must not be predictable across sessions.
func RandString(n int) string {
	max := big.NewInt(int64(len(RandAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = RandAlphabet[idx.Int64()]
	}
	return string(b)
}

// TimeMillis returns the current wall clock as unix epoch milliseconds.
func TimeMillis() int64 {
	return time.Now().UnixMilli()
}
