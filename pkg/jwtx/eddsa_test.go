package jwtx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/website-kz/sentinel/pkg/jwtx"
)

const exampleIssuer = "sentinel-test"

func newTestSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()

	pemKey, err := jwtx.GenerateEd25519PEM()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newTestSigner(t, "test-key-eddsa")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("account-456", "user@example.com", exampleIssuer, 2*time.Hour, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.Add(signer.PublicJWK()))
	require.True(t, keyset.IsReady())

	jwks := keyset.JWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.NotEmpty(t, jwks.Keys[0].X)

	verifier := jwtx.NewVerifierEdDSA(keyset, exampleIssuer)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "account-456", parsed.Subject)
	require.Equal(t, "user@example.com", parsed.Email)
	require.Equal(t, exampleIssuer, parsed.Issuer)
	require.NotEmpty(t, parsed.ID, "JTI should be set")

	// Expiry is issuance time plus the session TTL.
	require.WithinDuration(t, now.Add(2*time.Hour), parsed.ExpiresAt.Time, time.Second)
}

func TestEdDSAVerifyFailsForExpiredToken(t *testing.T) {
	signer := newTestSigner(t, "k1")

	issued := time.Now().UTC().Add(-3 * time.Hour)
	claims := jwtx.NewSessionClaims("account-1", "a@example.com", exampleIssuer, 2*time.Hour, issued)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.Add(signer.PublicJWK()))

	verifier := jwtx.NewVerifierEdDSA(keyset, exampleIssuer)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestEdDSAVerifyFailsForWrongIssuer(t *testing.T) {
	signer := newTestSigner(t, "k1")

	claims := jwtx.NewSessionClaims("account-1", "a@example.com", exampleIssuer, time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.Add(signer.PublicJWK()))

	verifier := jwtx.NewVerifierEdDSA(keyset, "wrong-issuer")

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestEdDSAVerifyFailsForUnknownKey(t *testing.T) {
	signer1 := newTestSigner(t, "key1")
	signer2 := newTestSigner(t, "key2")

	claims := jwtx.NewSessionClaims("account-1", "a@example.com", exampleIssuer, time.Minute, time.Now().UTC())
	token, err := signer1.Sign(claims)
	require.NoError(t, err)

	// Keyset only contains key2
	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.Add(signer2.PublicJWK()))

	verifier := jwtx.NewVerifierEdDSA(keyset, exampleIssuer)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestEdDSAVerifyFailsForTamperedToken(t *testing.T) {
	signer := newTestSigner(t, "k1")

	claims := jwtx.NewSessionClaims("account-1", "a@example.com", exampleIssuer, time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.Add(signer.PublicJWK()))
	verifier := jwtx.NewVerifierEdDSA(keyset, exampleIssuer)

	// Flip one character in the payload segment
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = verifier.Verify(string(tampered))
	require.Error(t, err)
}

func TestNewSignerEdDSAInvalidPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("test", []byte("not-a-pem-key"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid PEM")
}
