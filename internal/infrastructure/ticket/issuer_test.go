package ticket

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/signup-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, secret string) *Issuer {
	t.Helper()
	i, err := NewIssuer(secret, 30*time.Minute)
	require.NoError(t, err)
	return i
}

func TestNewIssuer_RequiresSecretAndTTL(t *testing.T) {
	_, err := NewIssuer("", time.Minute)
	assert.Error(t, err)
	_, err = NewIssuer("s3cret", 0)
	assert.Error(t, err)
}

func TestSignAndRecipient_RoundTrip(t *testing.T) {
	i := newTestIssuer(t, "s3cret")
	tok, err := i.Sign(" User@Example.com")
	require.NoError(t, err)

	r, err := i.Recipient(tok)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", r)
}

func TestRecipient_WrongSecret(t *testing.T) {
	tok, err := newTestIssuer(t, "one").Sign("a@b.com")
	require.NoError(t, err)

	_, err = newTestIssuer(t, "two").Recipient(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRecipient_Expired(t *testing.T) {
	i := newTestIssuer(t, "s3cret")
	start := time.Now()
	i.now = func() time.Time { return start }
	tok, err := i.Sign("a@b.com")
	require.NoError(t, err)

	i.now = func() time.Time { return start.Add(31 * time.Minute) }
	_, err = i.Recipient(tok)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRecipient_WrongPurpose(t *testing.T) {
	claims := Claims{
		Purpose: "password_reset",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = newTestIssuer(t, "s3cret").Recipient(tok)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRecipient_Garbage(t *testing.T) {
	_, err := newTestIssuer(t, "s3cret").Recipient("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
