package verification

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/signup-api/internal/domain"
	"github.com/signup-api/internal/pkg/otp"
)

// DefaultTTL is how long an issued code stays valid unless Options.TTL overrides it.
const DefaultTTL = 10 * time.Minute

// CodeStore maps a normalized recipient to its single outstanding code.
// Get returns an error wrapping domain.ErrNotFound when nothing is stored.
type CodeStore interface {
	Get(ctx context.Context, recipient string) (*domain.PendingVerification, error)
	Set(ctx context.Context, v *domain.PendingVerification) error
	Delete(ctx context.Context, recipient string) error
}

// Service issues and checks one-time codes.
type Service interface {
	// Issue replaces any code held for recipient with a fresh one and returns it for dispatch.
	Issue(ctx context.Context, recipient string) (string, error)
	// Verify reports whether code matches the one held for recipient.
	// An unknown recipient, an expired code and a wrong code all yield false with a nil error.
	Verify(ctx context.Context, recipient, code string) (bool, error)
}

// Options tunes code lifetime and consumption. The zero value never expires codes;
// use DefaultOptions for the service defaults.
type Options struct {
	TTL              time.Duration
	ConsumeOnSuccess bool
	Generate         func() (string, error)
	Now              func() time.Time
}

// DefaultOptions returns a 10 minute TTL with non-consuming verification.
func DefaultOptions() Options {
	return Options{TTL: DefaultTTL}
}

type service struct {
	mu       sync.Mutex
	store    CodeStore
	ttl      time.Duration
	consume  bool
	generate func() (string, error)
	now      func() time.Time
}

func NewService(store CodeStore, opts Options) Service {
	s := &service{
		store:    store,
		ttl:      opts.TTL,
		consume:  opts.ConsumeOnSuccess,
		generate: opts.Generate,
		now:      opts.Now,
	}
	if s.generate == nil {
		s.generate = otp.NewCode
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Issue(ctx context.Context, raw string) (string, error) {
	recipient := domain.NormalizeRecipient(raw)
	if recipient == "" {
		return "", fmt.Errorf("recipient required: %w", domain.ErrBadRequest)
	}
	code, err := s.generate()
	if err != nil {
		return "", err
	}
	now := s.now()
	v := &domain.PendingVerification{
		Recipient: recipient,
		Code:      code,
		IssuedAt:  now.Unix(),
	}
	if s.ttl > 0 {
		v.ExpiresAt = now.Add(s.ttl).Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, recipient); err != nil {
		return "", fmt.Errorf("discard previous code: %w", err)
	}
	if err := s.store.Set(ctx, v); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	slog.Debug("verification code issued", "recipient", recipient, "expires_at", v.ExpiresAt)
	return code, nil
}

func (s *service) Verify(ctx context.Context, raw, submitted string) (bool, error) {
	recipient := domain.NormalizeRecipient(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.store.Get(ctx, recipient)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load code: %w", err)
	}
	if v.Expired(s.now()) {
		if err := s.store.Delete(ctx, recipient); err != nil {
			slog.Warn("failed to delete expired verification code", "recipient", recipient, "err", err)
		}
		return false, nil
	}
	stored := strings.TrimSpace(v.Code)
	given := strings.TrimSpace(submitted)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(given)) != 1 {
		return false, nil
	}
	if s.consume {
		if err := s.store.Delete(ctx, recipient); err != nil {
			return false, fmt.Errorf("consume code: %w", err)
		}
	}
	return true, nil
}
