package ports

import (
	"context"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// AuditRepository persists assignment lifecycle events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AssignmentEvent) error
	// Recent returns the newest events first.
	Recent(ctx context.Context, limit int) ([]*domain.AssignmentEvent, error)
}
