package service

import (
	"fmt"
	"time"

	"github.com/website-kz/sentinel/internal/auth/domain"
	"github.com/website-kz/sentinel/pkg/jwtx"
)

// TokenService mints signed session tokens once code verification succeeds.
// Tokens are self-contained: the server keeps no session state for them.
type TokenService struct {
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

func (s *TokenService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Issue signs a session token binding the account identity and an absolute
// expiry. There is no refresh or renewal; clients log in again when it lapses.
func (s *TokenService) Issue(accountID, email string) (domain.Session, error) {
	now := time.Now().UTC()
	ttl := s.ttl()

	claims := jwtx.NewSessionClaims(accountID, email, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return domain.Session{
		Token:     token,
		ExpiresAt: now.Add(ttl),
	}, nil
}
