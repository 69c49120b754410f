package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIdentityTokenTTL is how long a signed identity token stays
// valid. Clients re-authenticate weekly.
const DefaultIdentityTokenTTL = 7 * 24 * time.Hour

// Claims is the identity token payload. Subject carries the user ID.
type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`

	jwt.RegisteredClaims
}

// NewClaims builds the registered claim set for a user identity token.
func NewClaims(issuer, subject, email, name string, verified bool, ttl time.Duration) Claims {
	now := time.Now().UTC()
	return Claims{
		Email:    email,
		Name:     name,
		Verified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
