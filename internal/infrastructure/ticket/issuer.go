package ticket

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/signup-api/internal/domain"
)

const purposeEmailVerification = "email_verification"

// Claims holds the ticket payload. Subject carries the normalized recipient.
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tickets proving a recipient passed code verification.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("ticket secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ticket ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (i *Issuer) Sign(recipient string) (string, error) {
	now := i.now()
	claims := Claims{
		Purpose: purposeEmailVerification,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.NormalizeRecipient(recipient),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Recipient verifies tokenStr and returns the recipient it was issued for.
func (i *Issuer) Recipient(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", fmt.Errorf("invalid ticket: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purposeEmailVerification || claims.Subject == "" {
		return "", fmt.Errorf("invalid ticket claims: %w", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}
