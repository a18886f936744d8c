package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AuthService gates the administrative API behind the admin password.
type AuthService interface {
	// Login checks password and opens a session, returning its signed token.
	Login(ctx context.Context, password string) (string, *domain.Session, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a token to a live session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
