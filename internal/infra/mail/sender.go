package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers through plain SMTP. One dialer is shared by every
// user routed to the smtp provider.
type EmailSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// WithFrom returns a copy bound to a sender address.
func (s *EmailSender) WithFrom(fromEmail, fromName string) *EmailSender {
	clone := *s
	clone.FromEmail = fromEmail
	clone.FromName = fromName
	return &clone
}

func (s *EmailSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.FromEmail, s.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	// gomail has no context support, so the dial-and-send runs in its
	// own goroutine and the deadline is enforced here.
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		recordTransportError(ProviderSMTP)
		return "", fmt.Errorf("smtp send aborted: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			recordTransportError(ProviderSMTP)
			return "", fmt.Errorf("smtp send failed: %w", err)
		}
	}

	// SMTP has no provider message id; the recipient stands in.
	return "smtp:" + to, nil
}
