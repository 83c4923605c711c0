package pkg

import (
	"crypto/rand"
	"encoding/base64"
)

// NewBoxToken generates the opaque token embedded in a box QR URL.
// 6 random bytes -> 8 base64url characters, no padding.
func NewBoxToken() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
