package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicnexus/clinic-api/internal/config"
)

// Sender delivers clinic notifications over SMTP.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg config.EmailConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NopSender discards all mail. Used when SMTP is not configured.
type NopSender struct{}

func (NopSender) Send(to, subject, body string) error { return nil }
