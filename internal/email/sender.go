package email

import (
	"github.com/LocalStoryMap/Oz-Backand/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. Callers treat delivery as best
// effort; a failed send must never fail the operation that triggered it.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.EmailConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// NopSender is used when mail is disabled in config.
type NopSender struct{}

func (NopSender) Send(string, string, string) error { return nil }
