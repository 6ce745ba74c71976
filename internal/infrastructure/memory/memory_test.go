package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/signup-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()

	_, err := s.Get(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, s.Set(ctx, &domain.PendingVerification{Recipient: "a@b.com", Code: "123456"}))
	v, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", v.Code)

	require.NoError(t, s.Set(ctx, &domain.PendingVerification{Recipient: "a@b.com", Code: "654321"}))
	v, err = s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "654321", v.Code)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "a@b.com"))
	_, err = s.Get(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCodeStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	require.NoError(t, s.Set(ctx, &domain.PendingVerification{Recipient: "a@b.com", Code: "123456"}))

	v, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	v.Code = "tampered"

	again, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", again.Code)
}

func TestCodeStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewCodeStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := fmt.Sprintf("u%d@x.com", i%5)
			_ = s.Set(ctx, &domain.PendingVerification{Recipient: r, Code: "111111"})
			_, _ = s.Get(ctx, r)
			_ = s.Delete(ctx, r)
		}(i)
	}
	wg.Wait()
}

func TestUserRepo_PutAndLookups(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo()
	u := &domain.User{UserID: "01H", EmailOrPhone: "ada@example.com", Username: "Ada_L"}
	require.NoError(t, r.Put(ctx, u))

	got, err := r.GetByEmailOrPhone(ctx, " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "01H", got.UserID)

	got, err = r.GetByUsername(ctx, "ada_l")
	require.NoError(t, err)
	assert.Equal(t, "01H", got.UserID)

	got, err = r.Get(ctx, "01H")
	require.NoError(t, err)
	assert.Equal(t, "Ada_L", got.Username)

	_, err = r.GetByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_PutConflicts(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo()
	require.NoError(t, r.Put(ctx, &domain.User{UserID: "1", EmailOrPhone: "a@b.com", Username: "alpha"}))

	err := r.Put(ctx, &domain.User{UserID: "2", EmailOrPhone: "A@B.com", Username: "beta"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	err = r.Put(ctx, &domain.User{UserID: "3", EmailOrPhone: "c@d.com", Username: "ALPHA"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
