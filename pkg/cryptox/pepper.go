package cryptox

import (
	"encoding/base64"
	"errors"
)

// Pepper is a process-wide secret mixed into password hashing. It lives
// in configuration, never in the database.
type Pepper []byte

var ErrPepperTooShort = errors.New("cryptox: pepper must be at least 16 bytes")

// ParsePepper decodes a base64 (std, padded) pepper from configuration.
func ParsePepper(s string) (Pepper, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("cryptox: pepper is not valid base64")
	}
	if len(raw) < 16 {
		return nil, ErrPepperTooShort
	}
	return Pepper(raw), nil
}

func (p Pepper) apply(password string) []byte {
	out := make([]byte, 0, len(password)+len(p))
	out = append(out, password...)
	out = append(out, p...)
	return out
}
