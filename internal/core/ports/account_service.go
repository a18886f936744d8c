package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AccountInput carries the editable fields of a service account. Password is
// plaintext and gets encrypted by the service.
type AccountInput struct {
	Name     string
	Email    string
	Password string
	Profiles []domain.Profile
}

// AccountService defines use-case operations for service accounts.
type AccountService interface {
	Create(ctx context.Context, input AccountInput) (*domain.ServiceAccount, error)
	// Update re-encrypts the password only when it differs from the stored one.
	Update(ctx context.Context, id string, input AccountInput) (*domain.ServiceAccount, error)
	RevealPassword(ctx context.Context, id string) (string, error)
	ToggleStatus(ctx context.Context, id string) (*domain.ServiceAccount, error)
	UpdateProfilePIN(ctx context.Context, id, profileName, newPIN string) error
	// Delete removes the account and every assignment referencing it.
	Delete(ctx context.Context, id string) error
	// GeneratePIN returns a random 4-digit PIN.
	GeneratePIN() (string, error)
}
