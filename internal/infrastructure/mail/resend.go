package mail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/signup-api/internal/config"
)

const resendAttempts = 3

type resendMailer struct {
	client *resend.Client
	from   string
}

func NewResend(cfg *config.Config) (Mailer, error) {
	if cfg.ResendAPIKey == "" {
		return nil, errors.New("resend api key is required")
	}
	if cfg.MailFrom == "" {
		return nil, errors.New("mail from is required")
	}
	return &resendMailer{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.MailFrom}, nil
}

func (m *resendMailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	var lastErr error
	for attempt := 0; attempt < resendAttempts; attempt++ {
		_, err := m.client.Emails.SendWithOptions(ctx, params, &resend.SendEmailOptions{})
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := rateLimitDelay(err, attempt)
		if !ok {
			return fmt.Errorf("resend send: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("resend send after %d attempts: %w", resendAttempts, lastErr)
}

// rateLimitDelay honours Retry-After on rate-limit errors, capped at 30s. Other errors are not retried.
func rateLimitDelay(err error, attempt int) (time.Duration, bool) {
	var rle *resend.RateLimitError
	if !errors.As(err, &rle) {
		return 0, false
	}
	if seconds, convErr := strconv.Atoi(strings.TrimSpace(rle.RetryAfter)); convErr == nil && seconds > 0 {
		if seconds > 30 {
			seconds = 30
		}
		return time.Duration(seconds) * time.Second, true
	}
	return time.Duration(attempt+1) * time.Second, true
}
