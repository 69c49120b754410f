package jwtx

// Signer mints signed identity tokens. Implementations carry their own
// key material and key ID.
type Signer interface {
	// Sign serialises and signs the claims, returning a compact JWT.
	Sign(claims Claims) (string, error)

	// KeyID returns the identifier stamped into the token header,
	// matching an entry in the published JWKS.
	KeyID() string
}
