// Package notification delivers verification emails and resolves best-effort
// request-origin hints for them.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/eventdesk/accessd/internal/config"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// SMTPSender delivers verification emails over SMTP with optional plain auth.
type SMTPSender struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
}

// NewSMTPSender creates an SMTP sender from configuration. Auth is enabled
// only when a username is configured.
func NewSMTPSender(cfg *config.Config, logger *slog.Logger) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:   fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:   cfg.SMTPFrom,
		auth:   auth,
		logger: logger,
	}
}

// Send delivers a verification email carrying the callback URL. The location
// string is a human-readable hint about where the request came from.
func (s *SMTPSender) Send(ctx context.Context, email, callbackURL, location string) error {
	from, err := mail.ParseAddress(s.from)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfig, "invalid smtp from address")
	}
	to, err := mail.ParseAddress(email)
	if err != nil {
		return apperrors.Wrap(err, "invalid recipient address")
	}

	message := buildVerificationMessage(from.Address, to.Address, callbackURL, location)

	if err := smtp.SendMail(s.addr, s.auth, from.Address, []string{to.Address}, message); err != nil {
		return apperrors.Wrap(err, "failed to send verification email")
	}

	s.logger.Debug("verification email delivered", slog.String("smtp_addr", s.addr))
	return nil
}

// buildVerificationMessage renders the RFC 5322 message body. Plain text
// only; the link must survive every mail client.
func buildVerificationMessage(from, to, callbackURL, location string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Confirm your access\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("A sign-in was requested from " + location + ".\r\n")
	b.WriteString("\r\n")
	b.WriteString("If this was you, confirm by opening the link below:\r\n")
	b.WriteString("\r\n")
	b.WriteString(callbackURL + "\r\n")
	b.WriteString("\r\n")
	b.WriteString("If you did not request this, you can ignore this message.\r\n")
	return []byte(b.String())
}
