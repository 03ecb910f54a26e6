package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret generates a cryptographically secure random secret
func GenerateSecret(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateServerSecrets generates the session signing secret and the password pepper.
// Both are 256-bit and independent of each other.
func GenerateServerSecrets() (sessionSecret, pepper string, err error) {
	sessionSecret, err = GenerateSecret(32)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate session secret: %w", err)
	}

	pepper, err = GenerateSecret(32)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate password pepper: %w", err)
	}

	return sessionSecret, pepper, nil
}
