package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/website-kz/sentinel/internal/auth/domain"
)

type loginCodesRepo struct {
	db dbtx
}

func (r *loginCodesRepo) CreateLoginCode(ctx context.Context, c domain.LoginCode) error {
	const q = `
		INSERT INTO login_codes (id, account_id, code_hash, expires_at, used_at, created_at)
		VALUES (?, ?, ?, ?, NULL, ?)`

	_, err := r.db.ExecContext(ctx, q, c.ID, c.AccountID, c.CodeHash, c.ExpiresAt, c.CreatedAt)
	return err
}

// GetLatestLoginCode returns the newest code for the account. ULIDs sort by
// issuance time, so ORDER BY id DESC picks the one eligible code; older rows
// are superseded without ever being touched.
func (r *loginCodesRepo) GetLatestLoginCode(ctx context.Context, accountID string) (domain.LoginCode, error) {
	const q = `
		SELECT id, account_id, code_hash, expires_at, used_at, created_at
		FROM login_codes
		WHERE account_id = ?
		ORDER BY id DESC
		LIMIT 1`

	var (
		c      domain.LoginCode
		usedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, accountID).
		Scan(&c.ID, &c.AccountID, &c.CodeHash, &c.ExpiresAt, &usedAt, &c.CreatedAt)
	if err != nil {
		return domain.LoginCode{}, mapNotFound(err)
	}
	if usedAt.Valid {
		t := usedAt.Time
		c.UsedAt = &t
	}
	return c, nil
}

// MarkLoginCodeUsed performs the used transition as a conditional update.
// sqlite serializes writers, so the WHERE used_at IS NULL predicate makes
// this a compare-and-set: exactly one concurrent caller gets true.
func (r *loginCodesRepo) MarkLoginCodeUsed(ctx context.Context, id string) (bool, error) {
	const q = `
		UPDATE login_codes
		SET used_at = ?
		WHERE id = ? AND used_at IS NULL`

	res, err := r.db.ExecContext(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *loginCodesRepo) DeleteExpiredLoginCodes(ctx context.Context) error {
	const q = `DELETE FROM login_codes WHERE expires_at < ?`

	_, err := r.db.ExecContext(ctx, q, time.Now().UTC())
	return err
}

func (r *loginCodesRepo) DeleteUsedLoginCodes(ctx context.Context) error {
	const q = `DELETE FROM login_codes WHERE used_at IS NOT NULL`

	_, err := r.db.ExecContext(ctx, q)
	return err
}
