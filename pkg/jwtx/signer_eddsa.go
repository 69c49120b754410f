package jwtx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSASigner signs identity tokens with an ed25519 private key.
type EdDSASigner struct {
	key   ed25519.PrivateKey
	keyID string
}

var _ Signer = (*EdDSASigner)(nil)

// NewEdDSASigner wraps an ed25519 private key. The key ID is derived
// from the public key so it stays stable across restarts.
func NewEdDSASigner(key ed25519.PrivateKey) *EdDSASigner {
	return &EdDSASigner{
		key:   key,
		keyID: DeriveKeyID(key.Public().(ed25519.PublicKey)),
	}
}

func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

func (s *EdDSASigner) KeyID() string { return s.keyID }

// DeriveKeyID fingerprints a public key into a short stable identifier.
func DeriveKeyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8])
}
