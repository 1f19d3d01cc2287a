package service

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/website-kz/sentinel/internal/auth/domain"
	"github.com/website-kz/sentinel/internal/auth/mail"
	"github.com/website-kz/sentinel/internal/auth/store"
	"github.com/website-kz/sentinel/pkg/cryptox"
	"github.com/website-kz/sentinel/pkg/idx"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// MinPasswordLength is the floor for registration passwords.
const MinPasswordLength = 8

const codeMailSubject = "Sentinel login code"

// AuthService orchestrates the credential lifecycle: Register, Login and
// VerifyCode. A login attempt walks Unauthenticated → PasswordVerified →
// CodeIssued → CodeVerified, with a terminal failure exit at each stage.
type AuthService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Codes  *CodeService
	Tokens *TokenService
	Mail   mail.Sender
}

// Register creates an account with a hashed password. Duplicate emails fail
// with ErrEmailTaken; uniqueness is enforced by the store, not by a
// check-then-insert.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	// Hashing is CPU-expensive by design; it happens before any store call
	// and never inside a transaction.
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		return err
	}

	slogx.FromContext(ctx).Info("account registered", "account_id", account.ID)
	return nil
}

// Login verifies the password and, on success, issues a login code and
// delivers it by email. Unknown email and wrong password both come back as
// ErrInvalidCredentials so callers cannot probe which emails are registered.
// A delivery failure after issuance surfaces as ErrDeliveryFailed; the
// persisted code is simply superseded by the next attempt.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	l := slogx.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil {
		return ErrInvalidCredentials
	}

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := s.Hasher.Verify(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		// Anything else means the stored digest is corrupted, which is an
		// internal failure, not a bad login.
		return fmt.Errorf("failed to verify password for account %s: %w", account.ID, err)
	}

	code, err := s.Codes.Issue(ctx, account.ID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your code: %s (valid for %s)", code, s.Codes.ttl())
	if err := s.Mail.Send(ctx, account.Email, codeMailSubject, body); err != nil {
		l.Error("login code delivery failed", "account_id", account.ID, "err", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	l.Info("login code issued", "account_id", account.ID)
	return nil
}

// VerifyCode consumes the latest login code for the email and mints a
// session token. The code transitions used=false→true exactly once; every
// later attempt gets ErrCodeAlreadyUsed.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Session{}, ErrCodeNotFound
	}

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrCodeNotFound
		}
		return domain.Session{}, err
	}

	if err := s.Codes.Verify(ctx, account.ID, code); err != nil {
		return domain.Session{}, err
	}

	session, err := s.Tokens.Issue(account.ID, account.Email)
	if err != nil {
		return domain.Session{}, err
	}

	slogx.FromContext(ctx).Info("login verified", "account_id", account.ID)
	return session, nil
}

// normalizeEmail lower-cases and validates the address. Case-insensitive
// uniqueness falls out of always storing and looking up the normalized form.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
