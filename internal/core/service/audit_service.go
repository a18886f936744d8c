package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

const (
	defaultRecentEvents = 50
	maxRecentEvents     = 500
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record stamps the event with a time-ordered id and persists it.
func (s *auditService) Record(ctx context.Context, event domain.AssignmentEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = ulid.MustNew(ulid.Timestamp(event.OccurredAt), rand.Reader).String()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("assignment_id", event.AssignmentID).
		Msg("audit event stored")
	return nil
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]*domain.AssignmentEvent, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentEvents
	case limit > maxRecentEvents:
		limit = maxRecentEvents
	}
	return s.repo.Recent(ctx, limit)
}
