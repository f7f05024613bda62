package crypto

import (
	"errors"
)

// MinSigningKeyLength is the shortest secret accepted for HS512 signing.
const MinSigningKeyLength = 32

var (
	ErrSigningKeyNotSet   = errors.New("signing key not set")
	ErrSigningKeyTooShort = errors.New("signing key too short: must be at least 32 bytes")
)

// SigningKey is the process-wide token signing secret. It is created once at
// startup and never mutated, so it can be shared by every request goroutine.
type SigningKey struct {
	key []byte
}

// NewSigningKey validates secret and takes a private copy of it.
func NewSigningKey(secret string) (*SigningKey, error) {
	if secret == "" {
		return nil, ErrSigningKeyNotSet
	}
	if len(secret) < MinSigningKeyLength {
		return nil, ErrSigningKeyTooShort
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &SigningKey{key: key}, nil
}

// Bytes returns a copy of the key material.
func (k *SigningKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}
