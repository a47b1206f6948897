package logs

import (
	"context"
	"time"

	"sellersync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, entry *ExecutionLog) error
	Update(ctx context.Context, entry *ExecutionLog) error
	List(ctx context.Context, q Query) ([]ExecutionLog, error)
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("cron_executions"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, entry *ExecutionLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *RepositoryImpl) Update(ctx context.Context, entry *ExecutionLog) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	return err
}

func (r *RepositoryImpl) List(ctx context.Context, q Query) ([]ExecutionLog, error) {
	filter := bson.M{}
	if q.Label != "" {
		filter["label"] = q.Label
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if !q.Since.IsZero() {
		filter["started_at"] = bson.M{"$gte": q.Since}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []ExecutionLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
