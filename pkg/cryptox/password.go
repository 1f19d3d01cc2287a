package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Embedded in every digest, so they can be raised later
// without invalidating stored hashes.
const (
	memory      = 19 * 1024 // KiB (19 MiB)
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	// ErrPasswordMismatch is the normal outcome of verifying a wrong password.
	ErrPasswordMismatch = errors.New("cryptox: password does not match")

	// ErrMalformedDigest reports a digest that cannot be parsed. This is a
	// storage corruption signal, not a failed login.
	ErrMalformedDigest = errors.New("cryptox: malformed password digest")
)

// Hasher produces and verifies PHC-format Argon2id password digests. The
// pepper is mixed into every hash and is supplied at construction; there is
// no package-level state.
type Hasher struct {
	pepper string
}

// NewHasher returns a Hasher using the given pepper. An empty pepper is
// allowed but weakens offline resistance if the database leaks alone.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash generates a salted Argon2id digest in PHC format:
// $argon2id$v=19$m=...,t=...,p=...$salt$hash
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify recomputes the digest using the salt and parameters embedded in
// encodedHash and compares in constant time. A wrong password yields
// ErrPasswordMismatch; anything else wraps ErrMalformedDigest.
func (h *Hasher) Verify(password, encodedHash string) error {
	// Expected: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts, got %d", ErrMalformedDigest, len(parts))
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrMalformedDigest)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrMalformedDigest)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: bad parameters: %v", ErrMalformedDigest, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: bad salt encoding: %v", ErrMalformedDigest, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: bad hash encoding: %v", ErrMalformedDigest, err)
	}

	got := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(want)), // #nosec G115 - digest length is bounded by keyLength
	)

	if subtle.ConstantTimeCompare(got, want) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
