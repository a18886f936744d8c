package ports

import (
	"context"
	"time"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AssignmentSort selects the ordering of List results.
type AssignmentSort int

const (
	SortNone AssignmentSort = iota
	SortExpiryAsc
	SortExpiryDesc
	SortAssignedDesc
)

// AssignmentFilter carries the query parameters for listing assignments.
// Zero values disable the corresponding condition.
type AssignmentFilter struct {
	ClientID  string
	AccountID string
	// ExpiresFrom keeps assignments with expiry_date >= ExpiresFrom.
	ExpiresFrom time.Time
	// ExpiresUntil keeps assignments with expiry_date <= ExpiresUntil.
	ExpiresUntil time.Time
	// ExpiredBefore keeps assignments with expiry_date < ExpiredBefore.
	ExpiredBefore time.Time
	Sort          AssignmentSort
	Limit         int
}

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	// FindActiveByClient returns an assignment of clientID whose expiry is at
	// or after now, or domain.ErrNoActiveAssignment.
	FindActiveByClient(ctx context.Context, clientID string, now time.Time) (*domain.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, error)
	// Update persists expiry, payment status and pin of a.
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	DeleteByClient(ctx context.Context, clientID string) (int64, error)
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
}
