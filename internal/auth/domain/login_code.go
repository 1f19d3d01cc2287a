package domain

import "time"

// LoginCode is a single-use emailed login code. The plaintext value is never
// stored; CodeHash is a SHA-256 fingerprint of it. IDs are ULIDs, so the
// newest code for an account is the one with the largest ID, and any older
// codes are superseded without being touched.
type LoginCode struct {
	ID        string
	AccountID string
	CodeHash  string
	ExpiresAt time.Time
	UsedAt    *time.Time // nil until consumed; set exactly once
	CreatedAt time.Time
}

// Used reports whether the code has been consumed.
func (c LoginCode) Used() bool { return c.UsedAt != nil }
