package service

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

func TestAuditService_Record_StampsEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), domain.AssignmentEvent{
		Type:         domain.EventRenewed,
		AssignmentID: "a1",
		OccurredAt:   fixedNow,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.inserted))
	}

	stored := repo.inserted[0]
	id, err := ulid.Parse(stored.ID)
	if err != nil {
		t.Fatalf("event id is not a ulid: %q", stored.ID)
	}
	if ulid.Time(id.Time()).UnixMilli() != fixedNow.UnixMilli() {
		t.Fatalf("ulid time %v does not match occurrence %v", ulid.Time(id.Time()), fixedNow)
	}
}

func TestAuditService_Record_DefaultsTime(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	_ = svc.Record(context.Background(), domain.AssignmentEvent{Type: domain.EventDeleted})
	if repo.inserted[0].OccurredAt.IsZero() {
		t.Fatal("occurredAt should default to now")
	}
}

func TestAuditService_Record_RepoError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("boom")}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Record(context.Background(), domain.AssignmentEvent{Type: domain.EventDeleted}); err == nil {
		t.Fatal("expected error")
	}
}

func TestAuditService_Recent_Limits(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())
	for i := 0; i < 60; i++ {
		_ = svc.Record(context.Background(), domain.AssignmentEvent{Type: domain.EventAssigned})
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{1000, 60},
	}
	for _, tc := range tests {
		got, err := svc.Recent(context.Background(), tc.limit)
		if err != nil {
			t.Fatalf("Recent(%d): %v", tc.limit, err)
		}
		if len(got) != tc.want {
			t.Errorf("Recent(%d) returned %d, want %d", tc.limit, len(got), tc.want)
		}
	}
}
