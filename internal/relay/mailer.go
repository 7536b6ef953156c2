package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Mailer delivers a contact message.
type Mailer interface {
	Deliver(ctx context.Context, id string, s contact.Submission) error
}

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends contact messages through an SMTP server with PLAIN auth.
type SMTPMailer struct {
	cfg      config.SMTP
	logger   *slog.Logger
	sendMail sendMailFunc
}

// NewSMTPMailer creates a mailer from cfg. When cfg.To is empty messages
// go to cfg.User.
func NewSMTPMailer(cfg config.SMTP, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTPMailer{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

// Deliver composes and sends the message. smtp.SendMail has no context
// support, so ctx is only checked before dialling.
func (m *SMTPMailer) Deliver(ctx context.Context, id string, s contact.Submission) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := composeMessage(m.cfg.User, m.cfg.To, id, s)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	if err := m.sendMail(addr, auth, m.cfg.User, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("contact email sent", "id", id)
	return nil
}

// composeMessage builds the RFC 5322 message. Header values have CR/LF
// stripped so visitor input cannot inject headers.
func composeMessage(from, to, id string, s contact.Submission) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Name, s.Email, s.Subject, s.Message)

	var b strings.Builder
	b.WriteString("To: " + headerValue(to) + "\r\n")
	b.WriteString("From: " + headerValue(from) + "\r\n")
	b.WriteString("Reply-To: " + headerValue(s.Email) + "\r\n")
	b.WriteString("Subject: Portfolio Contact: " + headerValue(s.Subject) + "\r\n")
	b.WriteString("Message-ID: <" + id + "@portfolio>\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
