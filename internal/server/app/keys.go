package app

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nivesh/brokerlink/pkg/cryptox"
)

// loadOrCreateSigningKey reads the ed25519 signing key from disk,
// generating and persisting one on first boot so tokens survive
// restarts.
func loadOrCreateSigningKey(path string) (ed25519.PrivateKey, error) {
	key, err := cryptox.LoadEd25519PrivateKeyPEM(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	_, key, err = cryptox.GenerateEd25519()
	if err != nil {
		return nil, err
	}

	pemBytes, err := cryptox.MarshalEd25519PrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		return nil, fmt.Errorf("persist signing key: %w", err)
	}
	return key, nil
}
