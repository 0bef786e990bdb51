// Package mail delivers transactional email over SMTP.
package mail

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Sender is the outbound mail dependency of the auth handlers. Tests swap
// in a fake; delivery failure of a reset mail triggers a compensating
// cleanup in the caller.
type Sender interface {
	SendWelcome(to, name, accountURL string) error
	SendPasswordReset(to, name, resetURL string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSMTPSender builds a sender; returns nil when no host is configured so
// callers can treat mail as optional.
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	if strings.TrimSpace(host) == "" {
		return nil
	}
	return &SMTPSender{host: host, port: port, user: user, password: password, from: from}
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	if s == nil {
		return fmt.Errorf("mail not configured")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendWelcome greets a freshly signed-up user.
func (s *SMTPSender) SendWelcome(to, name, accountURL string) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Welcome to Tourd, %s!</h2>
    <p>We are glad to have you. Manage your account here:</p>
    <p><a href="%s">%s</a></p>
  </div>
</body>
</html>`, name, accountURL, accountURL)
	return s.send(to, "Welcome to Tourd", body)
}

// SendPasswordReset carries the one-time reset link. The link is valid for
// ten minutes.
func (s *SMTPSender) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Password reset</h2>
    <p>Hi %s, forgot your password? Submit a PATCH request with your new
    password and confirmation to:</p>
    <p><a href="%s">%s</a></p>
    <p>The link expires in 10 minutes. If you didn't forget your password,
    please ignore this email.</p>
  </div>
</body>
</html>`, name, resetURL, resetURL)
	return s.send(to, "Your password reset token (valid for 10 minutes)", body)
}
