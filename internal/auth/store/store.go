package store

import (
	"context"
	"errors"

	"github.com/website-kz/sentinel/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep the surface tidy and let the service
// layer depend on exactly the primitives it needs.
type Store interface {
	Accounts() Accounts
	LoginCodes() LoginCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is already registered; uniqueness
	// is enforced by the store, not by a check-then-insert.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByEmail looks up an account by its (lower-cased) email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
}

type LoginCodes interface {
	// CreateLoginCode stores a freshly issued code record (used_at = NULL).
	CreateLoginCode(ctx context.Context, c domain.LoginCode) error

	// GetLatestLoginCode returns the most recently issued code for the
	// account. Older codes are superseded by issuance order and are never
	// returned here.
	GetLatestLoginCode(ctx context.Context, accountID string) (domain.LoginCode, error)

	// MarkLoginCodeUsed flips used_at from NULL in a single conditional
	// update. Returns false if the code was already consumed, so at most one
	// concurrent caller observes true for a given code.
	MarkLoginCodeUsed(ctx context.Context, id string) (bool, error)

	// DeleteExpiredLoginCodes removes codes past their expiry (housekeeping).
	DeleteExpiredLoginCodes(ctx context.Context) error

	// DeleteUsedLoginCodes removes consumed codes (housekeeping).
	DeleteUsedLoginCodes(ctx context.Context) error
}
