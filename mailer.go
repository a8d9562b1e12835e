package auth

import (
	"context"
	"fmt"
)

// LogMailer writes outgoing messages to the logger instead of delivering
// them. It is the default so the engine works out of the box in
// development; production wires a real delivery channel.
type LogMailer struct {
	logger Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a mailer that logs instead of sending
func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}

func buildVerificationEmail(frontendURL, token string) (subject, body string) {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", frontendURL, token)

	subject = "Verify Your Email - Ecommerce Platform"
	body = fmt.Sprintf(`<h1>Welcome to Ecommerce Platform!</h1>
<p>Please click the link below to verify your email address:</p>
<a href="%s">Verify Email</a>
<p>This link will expire in 24 hours.</p>
<p>If you didn't create an account, please ignore this email.</p>`, verificationURL)

	return subject, body
}

func buildPasswordResetEmail(frontendURL, token string) (subject, body string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)

	subject = "Reset Your Password - Ecommerce Platform"
	body = fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You requested to reset your password. Click the link below:</p>
<a href="%s">Reset Password</a>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>`, resetURL)

	return subject, body
}
