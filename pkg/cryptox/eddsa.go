package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var ErrNotEd25519 = errors.New("cryptox: key is not ed25519")

// GenerateEd25519 creates a fresh signing keypair.
func GenerateEd25519() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("cryptox: generate ed25519: %w", err)
	}
	return pub, priv, nil
}

// LoadEd25519PrivateKeyPEM reads a PKCS#8 PEM-encoded ed25519 private
// key from disk.
func LoadEd25519PrivateKeyPEM(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cryptox: read key file: %w", err)
	}
	return ParseEd25519PrivateKeyPEM(raw)
}

// ParseEd25519PrivateKeyPEM parses a PKCS#8 PEM block into an ed25519
// private key.
func ParseEd25519PrivateKeyPEM(raw []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("cryptox: no PEM block found")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse pkcs8: %w", err)
	}

	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	return priv, nil
}

// MarshalEd25519PrivateKeyPEM encodes a private key as PKCS#8 PEM,
// suitable for writing to a key file on first boot.
func MarshalEd25519PrivateKeyPEM(priv ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal pkcs8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
