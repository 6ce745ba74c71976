package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/signup-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsProvider(t *testing.T) {
	m, err := New(&config.Config{MailProvider: "noop"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, m)

	m, err = New(&config.Config{MailProvider: "smtp", SMTPHost: "localhost", SMTPPort: 1025, MailFrom: "a@b.com"})
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, m)

	m, err = New(&config.Config{MailProvider: "resend", ResendAPIKey: "re_test", MailFrom: "a@b.com"})
	require.NoError(t, err)
	assert.IsType(t, &resendMailer{}, m)

	_, err = New(&config.Config{MailProvider: "pigeon"})
	assert.Error(t, err)
}

func TestNewResend_RequiresKey(t *testing.T) {
	_, err := NewResend(&config.Config{MailFrom: "a@b.com"})
	assert.Error(t, err)
}

func TestSMTP_CancelledContext(t *testing.T) {
	m := NewSMTP(&config.Config{SMTPHost: "localhost", SMTPPort: 1025, MailFrom: "a@b.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.SendEmail(ctx, "x@y.com", "s", "<p>b</p>")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNoop_SendEmail(t *testing.T) {
	assert.NoError(t, Noop{}.SendEmail(context.Background(), "x@y.com", "s", "b"))
}

func TestRateLimitDelay_NonRateLimitIsNotRetried(t *testing.T) {
	_, ok := rateLimitDelay(errors.New("bad request"), 0)
	assert.False(t, ok)
}

func TestRateLimitDelay_UsesRetryAfter(t *testing.T) {
	d, ok := rateLimitDelay(&resend.RateLimitError{RetryAfter: "2"}, 0)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, d)
}
