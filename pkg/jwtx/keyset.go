package jwtx

import (
	"crypto/ed25519"
	"sync"
)

// KeySet holds the ed25519 public keys trusted for verification, keyed
// by key ID. Safe for concurrent use; rotation adds keys at runtime.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]ed25519.PublicKey)}
}

// Add registers a public key under its derived key ID and returns that ID.
func (ks *KeySet) Add(pub ed25519.PublicKey) string {
	kid := DeriveKeyID(pub)

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[kid] = pub
	return kid
}

// Lookup resolves a key ID to its public key.
func (ks *KeySet) Lookup(kid string) (ed25519.PublicKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	pub, ok := ks.keys[kid]
	return pub, ok
}

// All returns a snapshot of the registered keys.
func (ks *KeySet) All() map[string]ed25519.PublicKey {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	out := make(map[string]ed25519.PublicKey, len(ks.keys))
	for kid, pub := range ks.keys {
		out[kid] = pub
	}
	return out
}
