package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
)

// ErrInvalidObjectID is returned for malformed access entry identifiers.
var ErrInvalidObjectID = errors.New("invalid object id")

// AccessLogRepository persists audit entries in the document store.
// Lookups return (nil, nil) when no document matches.
type AccessLogRepository interface {
	Insert(ctx context.Context, entry *domain.AccessEntry) error
	InsertMany(ctx context.Context, entries []*domain.AccessEntry) error
	GetByID(ctx context.Context, id string) (*domain.AccessEntry, error)
	List(ctx context.Context, filter dto.AccessLogFilter, limit, offset int) ([]*domain.AccessEntry, error)
	Count(ctx context.Context, filter dto.AccessLogFilter) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AccessEntry, error)
	Update(ctx context.Context, id string, details map[string]string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, now time.Time) (*domain.AccessStats, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAccessLogRepository struct {
	collection *mongo.Collection
}

// NewMongoAccessLogRepository creates a MongoDB-backed access log repository.
func NewMongoAccessLogRepository(collection *mongo.Collection) AccessLogRepository {
	return &mongoAccessLogRepository{collection: collection}
}

func (r *mongoAccessLogRepository) Insert(ctx context.Context, entry *domain.AccessEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert access entry: %w", err)
	}
	return nil
}

func (r *mongoAccessLogRepository) InsertMany(ctx context.Context, entries []*domain.AccessEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		docs[i] = e
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert access entries: %w", err)
	}
	return nil
}

func (r *mongoAccessLogRepository) GetByID(ctx context.Context, id string) (*domain.AccessEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidObjectID
	}
	var entry domain.AccessEntry
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find access entry: %w", err)
	}
	return &entry, nil
}

func buildAccessFilter(filter dto.AccessLogFilter) bson.M {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.EventID != nil {
		query["event_id"] = *filter.EventID
	}
	if filter.AccessType != "" {
		query["access_type"] = filter.AccessType
	}
	if filter.From != nil || filter.To != nil {
		rangeQuery := bson.M{}
		if filter.From != nil {
			rangeQuery["$gte"] = *filter.From
		}
		if filter.To != nil {
			rangeQuery["$lte"] = *filter.To
		}
		query["timestamp"] = rangeQuery
	}
	return query
}

func (r *mongoAccessLogRepository) List(ctx context.Context, filter dto.AccessLogFilter, limit, offset int) ([]*domain.AccessEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, buildAccessFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list access entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.AccessEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode access entries: %w", err)
	}
	return entries, nil
}

func (r *mongoAccessLogRepository) Count(ctx context.Context, filter dto.AccessLogFilter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, buildAccessFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count access entries: %w", err)
	}
	return total, nil
}

func (r *mongoAccessLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AccessEntry, error) {
	return r.List(ctx, dto.AccessLogFilter{}, limit, 0)
}

func (r *mongoAccessLogRepository) Update(ctx context.Context, id string, details map[string]string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidObjectID
	}
	set := bson.M{}
	for field, value := range details {
		set["details."+field] = value
	}
	if len(set) == 0 {
		return true, nil
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update access entry: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoAccessLogRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidObjectID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete access entry: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoAccessLogRepository) Stats(ctx context.Context, now time.Time) (*domain.AccessStats, error) {
	stats := &domain.AccessStats{}

	count := func(filter bson.M) (int64, error) {
		return r.collection.CountDocuments(ctx, filter)
	}

	var err error
	if stats.Total, err = count(bson.M{}); err != nil {
		return nil, fmt.Errorf("access stats: %w", err)
	}
	if stats.Registrations, err = count(bson.M{"access_type": domain.AccessTypeRegistration}); err != nil {
		return nil, fmt.Errorf("access stats: %w", err)
	}
	if stats.Certificates, err = count(bson.M{"access_type": domain.AccessTypeCertificate}); err != nil {
		return nil, fmt.Errorf("access stats: %w", err)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.Today, err = count(bson.M{"timestamp": bson.M{"$gte": startOfDay}}); err != nil {
		return nil, fmt.Errorf("access stats: %w", err)
	}
	if stats.LastWeek, err = count(bson.M{"timestamp": bson.M{"$gte": now.AddDate(0, 0, -7)}}); err != nil {
		return nil, fmt.Errorf("access stats: %w", err)
	}
	return stats, nil
}

func (r *mongoAccessLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
		{Keys: bson.D{{Key: "access_type", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create access log indexes: %w", err)
	}
	return nil
}
