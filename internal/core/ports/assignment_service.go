package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// CreateAssignmentInput is the DTO passed from the transport layer to
// AssignmentService.Create. ClientWhatsApp is raw and gets normalized.
type CreateAssignmentInput struct {
	ClientName     string
	ClientWhatsApp string
	AccountID      string
	ProfileName    string
	PIN            string
}

// Assignment states as reported in views.
const (
	StateActive       = "active"
	StateExpiringSoon = "expiring_soon"
	StateExpired      = "expired"
)

// ClientRef is the part of a client shown next to an assignment.
type ClientRef struct {
	ID       string
	Name     string
	WhatsApp string
}

// AccountRef is the part of a service account shown next to an assignment.
type AccountRef struct {
	ID    string
	Name  string
	Email string
}

// AssignmentView is an assignment joined with its client and account.
// Refs are empty when the referenced record no longer exists.
type AssignmentView struct {
	Assignment *domain.Assignment
	Client     ClientRef
	Account    AccountRef
	State      string
}

// AccountSummary pairs an account with its current slot usage.
type AccountSummary struct {
	Account *domain.ServiceAccount
	Slots   domain.SlotAllocation
}

// Dashboard is everything the admin panel renders on load.
type Dashboard struct {
	Clients      []*domain.Client
	Accounts     []AccountSummary
	Active       []AssignmentView
	Expired      []AssignmentView
	ExpiringSoon []AssignmentView
}

// AssignmentService drives the assignment lifecycle.
type AssignmentService interface {
	Create(ctx context.Context, input CreateAssignmentInput) (*domain.Assignment, error)
	Renew(ctx context.Context, id string) (*domain.Assignment, error)
	TogglePayment(ctx context.Context, id string) (*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
	// Release sets a new PIN on the assignment's profile and then deletes
	// the assignment, freeing the slot for another client.
	Release(ctx context.Context, id, newPIN string) error
	Dashboard(ctx context.Context) (*Dashboard, error)
}
