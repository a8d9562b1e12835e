package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerificationEmail(t *testing.T) {
	subject, body := buildVerificationEmail("https://shop.example.com", "abc123")

	assert.Contains(t, subject, "Verify Your Email")
	assert.Contains(t, body, "https://shop.example.com/verify-email?token=abc123")
	assert.Contains(t, body, "24 hours")
}

func TestBuildPasswordResetEmail(t *testing.T) {
	subject, body := buildPasswordResetEmail("https://shop.example.com", "abc123")

	assert.Contains(t, subject, "Reset Your Password")
	assert.Contains(t, body, "https://shop.example.com/reset-password?token=abc123")
	assert.Contains(t, body, "1 hour")
}

func TestLogMailerSend(t *testing.T) {
	mailer := NewLogMailer(nil)
	require.NotNil(t, mailer)

	err := mailer.Send(context.Background(), "pepe@example.com", "hi", "<p>body</p>")
	assert.NoError(t, err)
}
