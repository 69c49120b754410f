package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier validates tokens against a KeySet of ed25519 public keys.
type EdDSAVerifier struct {
	keys   *KeySet
	issuer string
}

var _ Verifier = (*EdDSAVerifier)(nil)

func NewEdDSAVerifier(keys *KeySet, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{keys: keys, issuer: issuer}
}

func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		pub, ok := v.keys.Lookup(kid)
		if !ok {
			return nil, ErrUnknownKey
		}
		return pub, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case errors.Is(err, ErrUnknownKey):
		return Claims{}, ErrUnknownKey
	default:
		return Claims{}, ErrTokenInvalid
	}
}
