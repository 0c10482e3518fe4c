// Package mailer wraps the SMTP relay behind a small Sender interface.
// One operator mailbox sends everything; subscriber credentials are
// never stored or used.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"go-jobalert/internal/config"
)

// Sender is the send capability the dispatcher and the subscription API
// consume. Implementations report failure per message.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
