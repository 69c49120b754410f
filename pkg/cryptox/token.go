package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// RandomToken returns n random bytes as url-safe base64 without padding.
func RandomToken(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// SHA256Hex returns the lowercase hex digest of the input. Broker
// exchanges sign requests with digests of concatenated credentials.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
