package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AccountRepository defines persistence operations for service accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.ServiceAccount) (*domain.ServiceAccount, error)
	FindByID(ctx context.Context, id string) (*domain.ServiceAccount, error)
	// FindByIDs returns the accounts that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.ServiceAccount, error)
	// List returns every account ordered by name.
	List(ctx context.Context) ([]*domain.ServiceAccount, error)
	// Update replaces name, email, password, profiles and status of a.
	Update(ctx context.Context, a *domain.ServiceAccount) (*domain.ServiceAccount, error)
	Delete(ctx context.Context, id string) error
}
