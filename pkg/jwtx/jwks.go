package jwtx

import (
	"encoding/base64"
	"sort"
)

// JWK is a single public key in RFC 7517 form. Only OKP/Ed25519 is
// emitted here.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	Use string `json:"use"`
	Alg string `json:"alg"`
}

// JWKS is the document served at /.well-known/jwks.json.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// ExportJWKS renders the key set as a JWKS document with deterministic
// key ordering.
func ExportJWKS(ks *KeySet) JWKS {
	all := ks.All()

	kids := make([]string, 0, len(all))
	for kid := range all {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	doc := JWKS{Keys: make([]JWK, 0, len(kids))}
	for _, kid := range kids {
		doc.Keys = append(doc.Keys, JWK{
			Kty: "OKP",
			Crv: "Ed25519",
			Kid: kid,
			X:   base64.RawURLEncoding.EncodeToString(all[kid]),
			Use: "sig",
			Alg: "EdDSA",
		})
	}
	return doc
}
