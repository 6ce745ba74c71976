package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/signup-api/internal/domain"
)

// CodeStore is the process-local pending verification store.
// Codes live for the process lifetime; a restart invalidates all of them.
type CodeStore struct {
	mu    sync.RWMutex
	codes map[string]domain.PendingVerification
}

func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]domain.PendingVerification)}
}

func (s *CodeStore) Get(_ context.Context, recipient string) (*domain.PendingVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.codes[recipient]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

func (s *CodeStore) Set(_ context.Context, v *domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[v.Recipient] = *v
	return nil
}

func (s *CodeStore) Delete(_ context.Context, recipient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, recipient)
	return nil
}

// Len returns the number of recipients holding a code.
func (s *CodeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.codes)
}
