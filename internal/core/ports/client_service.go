package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// CreateClientInput carries the fields of a new client. WhatsApp is raw.
type CreateClientInput struct {
	Name     string
	WhatsApp string
}

// UpdateClientInput replaces the editable fields of a client.
type UpdateClientInput struct {
	Name     string
	WhatsApp string
	Notes    string
}

// ClientService defines use-case operations for clients.
type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	// Delete removes the client and every assignment referencing it.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]*domain.Client, error)
	// History lists every assignment of the client, latest expiry first.
	History(ctx context.Context, id string) ([]AssignmentView, error)
}
