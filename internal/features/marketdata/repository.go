package marketdata

import (
	"context"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Upsert(ctx context.Context, dataType models.DataType, docID string, integrationID string, naturalKey string, record map[string]interface{}) error
	ListMetas(ctx context.Context, dataType models.DataType, integrationID string) ([]RecordMeta, error)
	DeleteByIDs(ctx context.Context, dataType models.DataType, ids []string) (int64, error)
	List(ctx context.Context, dataType models.DataType, integrationID string, limit, offset int64) ([]map[string]interface{}, error)
	Count(ctx context.Context, dataType models.DataType, integrationID string) (int64, error)
	CountSince(ctx context.Context, dataType models.DataType, integrationID string, since time.Time) (int64, error)
}

type RepositoryImpl struct {
	db *mongo.Database
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{db: db.DB}
}

func (r *RepositoryImpl) collection(dataType models.DataType) *mongo.Collection {
	return r.db.Collection(dataType.Collection())
}

// Upsert writes a record under its synthetic id with merge semantics, so
// re-processing a page is idempotent for keyed records.
func (r *RepositoryImpl) Upsert(ctx context.Context, dataType models.DataType, docID string, integrationID string, naturalKey string, record map[string]interface{}) error {
	set := bson.M{}
	for k, v := range record {
		set[k] = v
	}
	set["integration_id"] = integrationID
	set["natural_key"] = naturalKey
	set["fetched_at"] = time.Now().UTC()

	_, err := r.collection(dataType).UpdateOne(
		ctx,
		bson.M{"_id": docID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"first_seen_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RepositoryImpl) ListMetas(ctx context.Context, dataType models.DataType, integrationID string) ([]RecordMeta, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "natural_key": 1, "fetched_at": 1})
	cursor, err := r.collection(dataType).Find(ctx, bson.M{"integration_id": integrationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var metas []RecordMeta
	if err = cursor.All(ctx, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

func (r *RepositoryImpl) DeleteByIDs(ctx context.Context, dataType models.DataType, ids []string) (int64, error) {
	res, err := r.collection(dataType).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *RepositoryImpl) List(ctx context.Context, dataType models.DataType, integrationID string, limit, offset int64) ([]map[string]interface{}, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cursor, err := r.collection(dataType).Find(ctx, bson.M{"integration_id": integrationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []map[string]interface{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RepositoryImpl) Count(ctx context.Context, dataType models.DataType, integrationID string) (int64, error) {
	return r.collection(dataType).CountDocuments(ctx, bson.M{"integration_id": integrationID})
}

func (r *RepositoryImpl) CountSince(ctx context.Context, dataType models.DataType, integrationID string, since time.Time) (int64, error) {
	return r.collection(dataType).CountDocuments(ctx, bson.M{
		"integration_id": integrationID,
		"fetched_at":     bson.M{"$gte": since},
	})
}
