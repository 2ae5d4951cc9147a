package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureRandomString returns n cryptographically random bytes hex
// encoded, so the result is 2n characters long. Session tokens and generated
// bootstrap passwords both come from here.
func GenerateSecureRandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random string length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to gather entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
