package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signup-api/internal/domain"
	"github.com/signup-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmailOrPhone(ctx context.Context, contact string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type ticketVerifier interface {
	Recipient(token string) (string, error)
}

type service struct {
	repo                 userStore
	tickets              ticketVerifier
	requireVerifiedEmail bool
	now                  func() time.Time
}

type ServiceDeps struct {
	UserRepo             userStore
	Tickets              ticketVerifier // optional
	RequireVerifiedEmail bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:                 deps.UserRepo,
		tickets:              deps.Tickets,
		requireVerifiedEmail: deps.RequireVerifiedEmail,
		now:                  time.Now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	contact := domain.NormalizeRecipient(req.EmailOrPhone)
	if err := s.ensureAvailable(ctx, contact, req.Username); err != nil {
		return nil, err
	}

	verified, err := s.emailVerified(contact, req.VerificationTicket)
	if err != nil {
		return nil, err
	}

	birthdate, err := time.Parse("2006-01-02", strings.TrimSpace(req.Birthdate))
	if err != nil {
		return nil, fmt.Errorf("birthdate must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:        id.New(),
		EmailOrPhone:  contact,
		Username:      req.Username,
		PasswordHash:  string(hash),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Birthdate:     birthdate,
		EmailVerified: verified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ensureAvailable(ctx context.Context, contact, username string) error {
	for _, lookup := range []func() (*domain.User, error){
		func() (*domain.User, error) { return s.repo.GetByEmailOrPhone(ctx, contact) },
		func() (*domain.User, error) { return s.repo.GetByUsername(ctx, username) },
	} {
		_, err := lookup()
		if err == nil {
			return fmt.Errorf("user already exists: %w", domain.ErrConflict)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return nil
}

// emailVerified checks the optional verification ticket against the contact being registered.
func (s *service) emailVerified(contact, ticket string) (bool, error) {
	if ticket == "" || s.tickets == nil {
		if s.requireVerifiedEmail {
			return false, fmt.Errorf("verification ticket required: %w", domain.ErrUnauthorized)
		}
		return false, nil
	}
	recipient, err := s.tickets.Recipient(ticket)
	if err == nil && recipient == contact {
		return true, nil
	}
	if s.requireVerifiedEmail {
		return false, fmt.Errorf("verification ticket does not match %s: %w", contact, domain.ErrUnauthorized)
	}
	return false, nil
}
