// Package random issues the opaque tokens the reference API hands out.
package random

import (
	"crypto/rand"
	"encoding/base64"
)

// TokenBytes is the entropy of a verification token (43 characters once encoded)
const TokenBytes = 32

// Random mints unguessable tokens; tests substitute a predictable sequence
type Random interface {
	// Token returns a fresh URL-safe token
	Token() string
}

// CryptoRandom reads from crypto/rand
type CryptoRandom struct{}

// New creates a CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns TokenBytes of randomness, base64url-encoded without padding
func (r *CryptoRandom) Token() string {
	buf := make([]byte, TokenBytes)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
