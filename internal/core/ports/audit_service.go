package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AuditPublisher accepts lifecycle events for asynchronous recording.
// Publish never blocks the caller.
type AuditPublisher interface {
	Publish(event domain.AssignmentEvent)
}

// AuditService records and lists lifecycle events.
type AuditService interface {
	Record(ctx context.Context, event domain.AssignmentEvent) error
	Recent(ctx context.Context, limit int) ([]*domain.AssignmentEvent, error)
}
