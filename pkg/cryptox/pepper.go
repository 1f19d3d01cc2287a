package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
)

const pepperBytes = 32

// LoadOrCreatePepper reads the pepper from file, generating and persisting a
// new one on first run. The caller passes the result to NewHasher; nothing
// here is cached globally.
func LoadOrCreatePepper(file string) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	raw, err := os.ReadFile(file)
	if err == nil {
		return string(raw), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	buf := make([]byte, pepperBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	pepper := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(file, []byte(pepper), 0600); err != nil {
		return "", err
	}
	return pepper, nil
}
