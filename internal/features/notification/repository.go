package notification

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
	Create(ctx context.Context, n *Notification) error
	ListByAdmin(ctx context.Context, adminID string, unreadOnly bool, limit int64) ([]Notification, error)
	CountUnread(ctx context.Context, adminID string) (int64, error)
	MarkRead(ctx context.Context, adminID string, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, adminID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type RepositoryImpl struct {
	coll *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{coll: db.DB.Collection("notifications")}
}

func (r *RepositoryImpl) Create(ctx context.Context, n *Notification) error {
	n.CreatedAt = time.Now()
	res, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RepositoryImpl) ListByAdmin(ctx context.Context, adminID string, unreadOnly bool, limit int64) ([]Notification, error) {
	filter := bson.M{"admin_id": adminID}
	if unreadOnly {
		filter["read"] = false
	}
	if limit <= 0 {
		limit = 50
	}
	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RepositoryImpl) CountUnread(ctx context.Context, adminID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"admin_id": adminID, "read": false})
}

func (r *RepositoryImpl) MarkRead(ctx context.Context, adminID string, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "admin_id": adminID},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *RepositoryImpl) MarkAllRead(ctx context.Context, adminID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"admin_id": adminID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *RepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
