package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NonceSize is the number of random bytes in a nonce (32 hex characters once
// encoded).
const NonceSize = 16

// GenerateNonce creates a cryptographically random nonce rendered as a
// lowercase hex string. The hex alphabet guarantees the value is free of
// delimiter characters, which state encoding relies on.
func GenerateNonce() (string, error) {
	buf := make([]byte, NonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MustGenerateNonce is like GenerateNonce but panics on error. Use only where
// failure of the system random source is unrecoverable.
func MustGenerateNonce() string {
	nonce, err := GenerateNonce()
	if err != nil {
		panic(fmt.Sprintf("cryptox: %v", err))
	}
	return nonce
}
