package services

import (
	"crypto/rand"
	"encoding/hex"
)

// randomToken returns an opaque random string of the requested length,
// hex-encoded from a cryptographically secure source. There is no structure
// to parse; tokens are only ever validated by server-side lookup.
func randomToken(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic("random source unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)[:length]
}
