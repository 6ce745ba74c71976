package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/signup-api/internal/domain"
)

// UserRepo keeps registered users in memory, indexed by email-or-phone and username.
type UserRepo struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byContact  map[string]string
	byUsername map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:       make(map[string]domain.User),
		byContact:  make(map[string]string),
		byUsername: make(map[string]string),
	}
}

// Put stores u. It fails with domain.ErrConflict when the contact or username is taken,
// so two concurrent registrations cannot both win.
func (r *UserRepo) Put(_ context.Context, u *domain.User) error {
	contact := domain.NormalizeRecipient(u.EmailOrPhone)
	username := strings.ToLower(u.Username)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byContact[contact]; ok {
		return fmt.Errorf("email or phone already registered: %w", domain.ErrConflict)
	}
	if _, ok := r.byUsername[username]; ok {
		return fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	r.byID[u.UserID] = *u
	r.byContact[contact] = u.UserID
	r.byUsername[username] = u.UserID
	return nil
}

func (r *UserRepo) Get(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(userID)
}

func (r *UserRepo) GetByEmailOrPhone(_ context.Context, contact string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byContact[domain.NormalizeRecipient(contact)])
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byUsername[strings.ToLower(username)])
}

func (r *UserRepo) lookup(userID string) (*domain.User, error) {
	u, ok := r.byID[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}
