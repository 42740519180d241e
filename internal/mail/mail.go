// Package mail delivers account notifications.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends through a single relay configured by SMTP_HOST.
type SMTPMailer struct {
	from string
	send func(m *gomail.Message) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.User == "" {
		dialer.Auth = nil
	}
	return &SMTPMailer{
		from: cfg.From,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(resetMessage(m.from, to, name, token)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func resetMessage(from, to, name, token string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your wishlist password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nUse this token to reset your password. It expires in one hour.\n\n%s\n\nIf you did not ask for a reset you can ignore this message.\n",
		name, token))
	return msg
}

// LogMailer is used when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	slog.Info("password reset requested, no mail relay configured", "to", to)
	return nil
}
