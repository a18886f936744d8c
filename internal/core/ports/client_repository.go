package ports

import (
	"context"
	"time"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// ClientRepository defines persistence operations for clients.
// WhatsApp values passed in are already normalized.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByWhatsApp(ctx context.Context, whatsapp string) (*domain.Client, error)
	// FindOrCreate returns the client owning whatsapp, inserting one named
	// name and stamped with now when none exists. An existing client's name
	// is left untouched.
	FindOrCreate(ctx context.Context, name, whatsapp string, now time.Time) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	// List returns every client ordered by name.
	List(ctx context.Context) ([]*domain.Client, error)
	// Search matches term case-insensitively against name or whatsapp.
	Search(ctx context.Context, term string, limit int) ([]*domain.Client, error)
}
