package domain

import "time"

// Account is a registered identity. Email is stored lower-cased and is
// unique across the store.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
