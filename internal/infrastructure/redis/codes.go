package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/signup-api/internal/config"
	"github.com/signup-api/internal/domain"
)

// NewClient builds a client from cfg and checks the connection.
func NewClient(ctx context.Context, cfg *config.Config) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.RedisAddr},
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

// CodeStore keeps pending verifications as JSON values whose Redis expiry follows ExpiresAt.
type CodeStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewCodeStore(client redis.UniversalClient, prefix string) *CodeStore {
	return &CodeStore{client: client, prefix: prefix, now: time.Now}
}

func (s *CodeStore) Get(ctx context.Context, recipient string) (*domain.PendingVerification, error) {
	data, err := s.client.Get(ctx, s.key(recipient)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var v domain.PendingVerification
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode verification: %w", err)
	}
	return &v, nil
}

func (s *CodeStore) Set(ctx context.Context, v *domain.PendingVerification) error {
	expiration, ok := expirationFor(v, s.now())
	if !ok {
		return s.Delete(ctx, v.Recipient)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode verification: %w", err)
	}
	return s.client.Set(ctx, s.key(v.Recipient), data, expiration).Err()
}

func (s *CodeStore) Delete(ctx context.Context, recipient string) error {
	return s.client.Del(ctx, s.key(recipient)).Err()
}

func (s *CodeStore) key(recipient string) string {
	return s.prefix + recipient
}

// expirationFor returns the Redis TTL for v. Zero means no expiry.
// ok is false when the code is already expired and should not be written.
func expirationFor(v *domain.PendingVerification, now time.Time) (time.Duration, bool) {
	if v.ExpiresAt == 0 {
		return 0, true
	}
	d := time.Unix(v.ExpiresAt, 0).Sub(now)
	if d <= 0 {
		return 0, false
	}
	return d, true
}
