// Package password hashes and verifies account passwords.
//
// Passwords are first keyed with an HMAC-SHA256 pepper held outside the database,
// then hashed with bcrypt, which adds a per-hash salt and compares in constant time.
package password

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match its hash
var ErrMismatch = errors.New("password does not match")

// Hasher hashes and verifies passwords with a fixed pepper and bcrypt cost
type Hasher struct {
	pepper []byte
	cost   int
	dummy  []byte
}

// NewHasher creates a hasher. An empty pepper disables peppering (development only).
func NewHasher(pepper string, cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	h := &Hasher{pepper: []byte(pepper), cost: cost}

	dummy, err := bcrypt.GenerateFromPassword(h.peppered("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	h.dummy = dummy

	return h, nil
}

// peppered keys the password with the pepper; the hex digest stays under bcrypt's 72 byte limit
func (h *Hasher) peppered(plain string) []byte {
	if len(h.pepper) == 0 {
		return []byte(plain)
	}
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(plain))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}

// Hash returns the bcrypt hash of the peppered password
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(h.peppered(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plain against hash, returning ErrMismatch on a wrong password
func (h *Hasher) Verify(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}

// VerifyDummy spends the same work as Verify so unknown usernames are not distinguishable by timing
func (h *Hasher) VerifyDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, h.peppered(plain))
}
