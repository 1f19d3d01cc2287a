package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// LoginCodeDigits is the length of generated login codes.
const LoginCodeDigits = 6

var codeSpace = big.NewInt(1_000_000)

// GenerateLoginCode returns a uniformly random zero-padded 6-digit code
// (000000..999999) from crypto/rand. rand.Int performs rejection sampling, so
// the distribution carries no modulo bias.
func GenerateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate login code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// FingerprintCode returns a deterministic SHA-256 fingerprint of a login
// code, base64url encoded. Only fingerprints are persisted; the plaintext
// code exists solely in the delivery channel.
func FingerprintCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
