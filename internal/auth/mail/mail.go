// Package mail is the outbound delivery channel for login codes. The service
// layer depends on the Sender interface only; the SMTP implementation lives
// behind it so tests can capture messages in memory.
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers a message to a single recipient. The plaintext login code
// travels only inside body; implementations must never return it.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes messages to the logger instead of delivering them. Used in
// dev when no SMTP host is configured; the body carries the login code, so
// this must never be wired up in production.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.Logger.Info("mail delivery skipped (no SMTP configured)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
