package mail

import (
	"context"
	"fmt"

	"github.com/relaunchapp/followup-service/internal/entity"
)

// Provider names accepted in a user's settings.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// Transport delivers one rendered email and returns the provider's
// message id.
type Transport interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// TransportSelector picks the transport matching a user's settings.
type TransportSelector interface {
	ForSettings(settings *entity.Settings) (Transport, error)
}

// Registry is the production TransportSelector: SMTP goes through the
// shared dialer configured at boot, Resend through a per-user API key.
type Registry struct {
	SMTP      *EmailSender
	FromEmail string
	FromName  string
}

func NewRegistry(smtp *EmailSender, fromEmail, fromName string) *Registry {
	return &Registry{
		SMTP:      smtp,
		FromEmail: fromEmail,
		FromName:  fromName,
	}
}

func (r *Registry) ForSettings(settings *entity.Settings) (Transport, error) {
	from := settings.FromEmail
	if from == "" {
		from = r.FromEmail
	}

	switch settings.EmailProvider {
	case ProviderSMTP:
		if r.SMTP == nil {
			return nil, fmt.Errorf("smtp transport is not configured on this instance")
		}
		return r.SMTP.WithFrom(from, r.FromName), nil
	case ProviderResend:
		if settings.EmailAPIKey == "" {
			return nil, fmt.Errorf("no email API key configured")
		}
		return NewResendClient(settings.EmailAPIKey, from, r.FromName), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", settings.EmailProvider)
	}
}
