package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/website-kz/sentinel/internal/auth/domain"
	"github.com/website-kz/sentinel/internal/auth/store"
	"github.com/website-kz/sentinel/pkg/cryptox"
	"github.com/website-kz/sentinel/pkg/idx"
)

// DefaultCodeTTL is the validity window of an issued login code.
const DefaultCodeTTL = 5 * time.Minute

// CodeService issues and verifies single-use login codes. It never touches
// the delivery channel; the orchestrator does, so a delivery failure is a
// reportable error rather than a silent defect in code generation.
type CodeService struct {
	Store store.Store
	TTL   time.Duration
}

func (s *CodeService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultCodeTTL
}

// Issue generates a fresh code for the account, persists its fingerprint,
// and returns the plaintext. This is the only moment the plaintext exists
// outside the delivery channel; it cannot be recovered from the store.
// Issuing supersedes any earlier codes for the account by ordering alone.
func (s *CodeService) Issue(ctx context.Context, accountID string) (string, error) {
	code, err := cryptox.GenerateLoginCode()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	rec := domain.LoginCode{
		ID:        idx.New().String(),
		AccountID: accountID,
		CodeHash:  cryptox.FingerprintCode(code),
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	if err := s.Store.LoginCodes().CreateLoginCode(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to persist login code: %w", err)
	}

	return code, nil
}

// Verify checks the submitted code against the latest issued code for the
// account and consumes it on success. The check order is fixed — missing,
// already used, mismatch, expired — so callers observe deterministic
// outcomes on multi-violation inputs.
func (s *CodeService) Verify(ctx context.Context, accountID, submitted string) error {
	rec, err := s.Store.LoginCodes().GetLatestLoginCode(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	if rec.Used() {
		return ErrCodeAlreadyUsed
	}

	fp := cryptox.FingerprintCode(submitted)
	if subtle.ConstantTimeCompare([]byte(fp), []byte(rec.CodeHash)) != 1 {
		return ErrCodeMismatch
	}

	if time.Now().UTC().After(rec.ExpiresAt) {
		return ErrCodeExpired
	}

	// Conditional update: of any number of concurrent verifiers that reached
	// this point, only the one whose update flips used_at wins.
	ok, err := s.Store.LoginCodes().MarkLoginCodeUsed(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to mark login code used: %w", err)
	}
	if !ok {
		return ErrCodeAlreadyUsed
	}

	return nil
}
