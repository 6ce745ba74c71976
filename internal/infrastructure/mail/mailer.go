package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signup-api/internal/config"
)

// Mailer sends HTML emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// New picks the mailer named by cfg.MailProvider.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case "smtp", "":
		return NewSMTP(cfg), nil
	case "resend":
		return NewResend(cfg)
	case "noop":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

// Noop logs instead of sending. Used in development when no provider is configured.
type Noop struct{}

func (Noop) SendEmail(_ context.Context, to, subject, _ string) error {
	slog.Info("noop mailer: email not sent", "to", to, "subject", subject)
	return nil
}
