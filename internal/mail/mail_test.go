package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	var sent *gomail.Message
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"})
	m.send = func(msg *gomail.Message) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "tok-123"))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"ada@example.com"}, sent.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, sent.GetHeader("From"))

	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "tok-123")
}

func TestSMTPMailer_WrapsSendError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	m.send = func(*gomail.Message) error { return errors.New("connection refused") }

	err := m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "tok")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_HonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	m.send = func(*gomail.Message) error {
		t.Fatal("should not send")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendPasswordReset(ctx, "a@example.com", "A", "tok"), context.Canceled)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendPasswordReset(context.Background(), "a@example.com", "A", "tok"))
}
