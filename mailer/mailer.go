// mailer.go - Outgoing email (signup OTPs and order confirmations)

package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lusionbeatz-backend/config"
)

type Sender interface {
	Send(to, subject, body string) error
}

// LogSender writes mails to the log instead of delivering them. Used when no
// SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	zap.L().Info("mail (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

type SMTPSender struct {
	host, port string
	auth       smtp.Auth
	from       string
}

func NewSMTPSender(host, port, user, pass, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPSender{host: host, port: port, auth: auth, from: from}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body + "\r\n"
	if err := smtp.SendMail(s.host+":"+s.port, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// FromConfig picks SMTP delivery when SMTP_HOST is set, logging otherwise.
func FromConfig(cfg *config.Config) Sender {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return LogSender{}
	}
	return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
}

var (
	mu      sync.RWMutex
	current Sender = LogSender{}
)

// Use replaces the process-wide sender.
func Use(s Sender) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// Send delivers through the process-wide sender.
func Send(to, subject, body string) error {
	mu.RLock()
	s := current
	mu.RUnlock()
	return s.Send(to, subject, body)
}
