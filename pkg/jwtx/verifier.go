package jwtx

import "errors"

var (
	ErrTokenInvalid = errors.New("jwtx: token invalid")
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrUnknownKey   = errors.New("jwtx: unknown signing key")
)

// Verifier checks token signatures and standard claims.
type Verifier interface {
	// Verify parses the compact JWT, checks the signature against the
	// key set and validates exp/nbf. Returns ErrTokenExpired for
	// out-of-window tokens and ErrTokenInvalid otherwise.
	Verify(token string) (Claims, error)
}
