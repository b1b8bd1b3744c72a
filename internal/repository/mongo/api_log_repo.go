package mongo

import (
	"context"
	"time"

	"gymtracker/gym-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const apiLogCollectionName = "api_logs"

// apiLogDocument is the stored shape of a request log entry.
type apiLogDocument struct {
	RequestID  string    `bson:"requestId"`
	Method     string    `bson:"method"`
	Path       string    `bson:"path"`
	Status     int       `bson:"status"`
	DurationMs int64     `bson:"durationMs"`
	ClientIP   string    `bson:"clientIp"`
	UserID     int64     `bson:"userId,omitempty"`
	Role       string    `bson:"role,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// mongoAPILogRepository implements repository.APILogRepository using MongoDB.
type mongoAPILogRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoAPILogRepository creates a request log store on the api_logs collection.
func NewMongoAPILogRepository(db *mongo.Database) repository.APILogRepository {
	return &mongoAPILogRepository{
		collection: db.Collection(apiLogCollectionName),
		now:        time.Now,
	}
}

// Insert stores one request log entry.
func (r *mongoAPILogRepository) Insert(ctx context.Context, entry repository.APILogEntry) error {
	doc := apiLogDocument{
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		Status:     entry.Status,
		DurationMs: entry.DurationMs,
		ClientIP:   entry.ClientIP,
		UserID:     entry.UserID,
		Role:       string(entry.Role),
		CreatedAt:  r.now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// EnsureAPILogIndexes creates the lookup indexes and a TTL index expiring entries after ttl.
func EnsureAPILogIndexes(ctx context.Context, collection *mongo.Collection, ttl time.Duration) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// APILogCollection returns the collection the request log repository writes to.
func APILogCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(apiLogCollectionName)
}
