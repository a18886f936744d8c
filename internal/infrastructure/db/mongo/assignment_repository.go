package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) ports.AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

// assignmentDoc keeps client_id and account_id as hex strings so cascades
// and filters can use the ids handed out by the API directly.
type assignmentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ClientID      string             `bson:"client_id"`
	AccountID     string             `bson:"account_id"`
	ProfileName   string             `bson:"profile_name"`
	PIN           string             `bson:"pin"`
	AssignedDate  time.Time          `bson:"assigned_date"`
	ExpiryDate    time.Time          `bson:"expiry_date"`
	PaymentStatus string             `bson:"payment_status"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *assignmentDoc) toDomain() *domain.Assignment {
	return &domain.Assignment{
		ID:            d.ID.Hex(),
		ClientID:      d.ClientID,
		AccountID:     d.AccountID,
		ProfileName:   d.ProfileName,
		PIN:           d.PIN,
		AssignedDate:  d.AssignedDate.UTC(),
		ExpiryDate:    d.ExpiryDate.UTC(),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := assignmentDoc{
		ID:            primitive.NewObjectID(),
		ClientID:      a.ClientID,
		AccountID:     a.AccountID,
		ProfileName:   a.ProfileName,
		PIN:           a.PIN,
		AssignedDate:  a.AssignedDate,
		ExpiryDate:    a.ExpiryDate,
		PaymentStatus: string(a.PaymentStatus),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	oid, err := objectID(id, domain.ErrAssignmentNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc assignmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AssignmentRepository) FindActiveByClient(ctx context.Context, clientID string, now time.Time) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"client_id": clientID, "expiry_date": bson.M{"$gte": now}}
	opts := options.FindOne().SetSort(bson.D{{Key: "expiry_date", Value: -1}})

	var doc assignmentDoc
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoActiveAssignment
		}
		return nil, fmt.Errorf("find active assignment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AssignmentRepository) List(ctx context.Context, f ports.AssignmentFilter) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find()
	if sort := sortFor(f.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filterFor(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	var docs []assignmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}

	out := make([]*domain.Assignment, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	oid, err := objectID(a.ID, domain.ErrAssignmentNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"pin":            a.PIN,
		"expiry_date":    a.ExpiryDate,
		"payment_status": string(a.PaymentStatus),
		"updated_at":     a.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrAssignmentNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) DeleteByClient(ctx context.Context, clientID string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"client_id": clientID})
}

func (r *AssignmentRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"account_id": accountID})
}

func (r *AssignmentRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", err)
	}
	return res.DeletedCount, nil
}

func filterFor(f ports.AssignmentFilter) bson.M {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.AccountID != "" {
		filter["account_id"] = f.AccountID
	}

	expiry := bson.M{}
	if !f.ExpiresFrom.IsZero() {
		expiry["$gte"] = f.ExpiresFrom
	}
	if !f.ExpiresUntil.IsZero() {
		expiry["$lte"] = f.ExpiresUntil
	}
	if !f.ExpiredBefore.IsZero() {
		expiry["$lt"] = f.ExpiredBefore
	}
	if len(expiry) > 0 {
		filter["expiry_date"] = expiry
	}
	return filter
}

func sortFor(s ports.AssignmentSort) bson.D {
	switch s {
	case ports.SortExpiryAsc:
		return bson.D{{Key: "expiry_date", Value: 1}}
	case ports.SortExpiryDesc:
		return bson.D{{Key: "expiry_date", Value: -1}}
	case ports.SortAssignedDesc:
		return bson.D{{Key: "assigned_date", Value: -1}}
	default:
		return nil
	}
}
