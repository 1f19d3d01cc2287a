package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig carries the connection settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address, e.g. "Sentinel <no-reply@example.com>"
}

// SMTPSender delivers messages over SMTP with mandatory TLS.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds a Sender from the given config. The client keeps no
// open connection; each Send dials, delivers, and closes.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: deliver to %s: %w", to, err)
	}
	return nil
}
