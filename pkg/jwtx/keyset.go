package jwtx

import (
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds public verification keys in memory, keyed by kid. It is
// thread-safe so the JWKS handler and verifiers can share one instance.
type KeySet struct {
	mu  sync.RWMutex
	jks JWKS
	pub map[string]any // kid -> ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]any)}
}

// Add registers a JWK and its decoded public key.
func (ks *KeySet) Add(jwk JWK) error {
	pub, err := jwk.PublicKey()
	if err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.jks.Keys = append(ks.jks.Keys, jwk)
	ks.pub[jwk.Kid] = pub
	return nil
}

// Get returns the public key for a kid.
func (ks *KeySet) Get(kid string) (any, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	pub, ok := ks.pub[kid]
	if !ok {
		return nil, ErrNoKey
	}
	return pub, nil
}

// IsReady reports whether at least one verification key is loaded.
func (ks *KeySet) IsReady() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.pub) > 0
}

// JWKS returns a snapshot of the key set for publication.
func (ks *KeySet) JWKS() JWKS {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	out := JWKS{Keys: make([]JWK, len(ks.jks.Keys))}
	copy(out.Keys, ks.jks.Keys)
	return out
}
