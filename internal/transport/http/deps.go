package http

import (
	"context"

	"github.com/signup-api/internal/application/verification"
	"github.com/signup-api/internal/domain"
	"github.com/signup-api/internal/infrastructure/mail"
	"github.com/signup-api/internal/infrastructure/sns"
	"github.com/signup-api/internal/infrastructure/ticket"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmailOrPhone(ctx context.Context, contact string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	CodeStore verification.CodeStore
	UserRepo  UserRepository
	Mailer    mail.Mailer
	SMSSender sns.SMSSender // nil disables phone recipients
	Tickets   *ticket.Issuer // nil disables verification tickets
}
