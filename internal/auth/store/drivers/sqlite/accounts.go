package sqlite

import (
	"context"

	"github.com/website-kz/sentinel/internal/auth/domain"
)

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	const q = `
		INSERT INTO accounts (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q, a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	const q = `
		SELECT id, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE email = ?`

	var a domain.Account
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	const q = `
		SELECT id, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = ?`

	var a domain.Account
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}
