package domain

import "time"

// Session is a signed, self-contained session credential. It is handed to the
// client and never persisted; expiry is embedded in the token itself.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
