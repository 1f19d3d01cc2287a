package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/website-kz/sentinel/pkg/idx"
	"github.com/website-kz/sentinel/pkg/jwtx"
)

// InitSigningKeys loads the Ed25519 signing key from the configured file,
// generating and persisting one on first run. Persisting the key means
// session tokens survive restarts.
func InitSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	pemKey, created, err := loadOrCreateKeyPEM(cfg.SigningKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create signer: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, nil, err
	}

	keys := jwtx.NewKeySet()
	if err := keys.Add(signer.PublicJWK()); err != nil {
		return nil, nil, fmt.Errorf("failed to register public key: %w", err)
	}

	if created {
		logger.Info("generated new signing key", "file", cfg.SigningKeyFile, "kid", signer.KID())
	} else {
		logger.Info("loaded signing key", "file", cfg.SigningKeyFile, "kid", signer.KID())
	}

	return signer, keys, nil
}

func loadOrCreateKeyPEM(file string) (pemKey []byte, created bool, err error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, false, err
	}

	pemKey, err = os.ReadFile(file)
	if err == nil {
		return pemKey, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	pemKey, err = jwtx.GenerateEd25519PEM()
	if err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(file, pemKey, 0600); err != nil {
		return nil, false, err
	}
	return pemKey, true, nil
}
