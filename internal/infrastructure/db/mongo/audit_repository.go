package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository on the assignment_events
// collection. Events are append-only.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionEvents)}
}

type eventDoc struct {
	ID           string    `bson:"_id"`
	Type         string    `bson:"type"`
	AssignmentID string    `bson:"assignment_id,omitempty"`
	ClientID     string    `bson:"client_id,omitempty"`
	AccountID    string    `bson:"account_id,omitempty"`
	ProfileName  string    `bson:"profile_name,omitempty"`
	Detail       string    `bson:"detail,omitempty"`
	OccurredAt   time.Time `bson:"occurred_at"`
	ProcessedAt  time.Time `bson:"processed_at"`
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := eventDoc{
		ID:           event.ID,
		Type:         string(event.Type),
		AssignmentID: event.AssignmentID,
		ClientID:     event.ClientID,
		AccountID:    event.AccountID,
		ProfileName:  event.ProfileName,
		Detail:       event.Detail,
		OccurredAt:   event.OccurredAt.UTC(),
		ProcessedAt:  time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*domain.AssignmentEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// ulid ids sort by time, so _id breaks ties within one millisecond.
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]*domain.AssignmentEvent, len(docs))
	for i, d := range docs {
		out[i] = &domain.AssignmentEvent{
			ID:           d.ID,
			Type:         domain.AssignmentEventType(d.Type),
			AssignmentID: d.AssignmentID,
			ClientID:     d.ClientID,
			AccountID:    d.AccountID,
			ProfileName:  d.ProfileName,
			Detail:       d.Detail,
			OccurredAt:   d.OccurredAt.UTC(),
		}
	}
	return out, nil
}
