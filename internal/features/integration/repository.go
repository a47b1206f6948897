package integration

import (
	"context"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, integ *Integration) error
	Get(ctx context.Context, id string) (*Integration, error)
	ListByAdmin(ctx context.Context, adminID string) ([]Integration, error)
	ListCronEnabled(ctx context.Context, dataType models.DataType) ([]Integration, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	TouchLastSync(ctx context.Context, id string, dataType models.DataType, at time.Time) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("takealot_integrations"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, integ *Integration) error {
	if integ.ID.IsZero() {
		integ.ID = primitive.NewObjectID()
	}
	integ.CreatedAt = time.Now()
	integ.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, integ)
	return err
}

func (r *RepositoryImpl) Get(ctx context.Context, id string) (*Integration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var integ Integration
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&integ)
	if err != nil {
		return nil, err
	}
	return &integ, nil
}

func (r *RepositoryImpl) ListByAdmin(ctx context.Context, adminID string) ([]Integration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"admin_id": adminID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var integrations []Integration
	if err = cursor.All(ctx, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *RepositoryImpl) ListCronEnabled(ctx context.Context, dataType models.DataType) ([]Integration, error) {
	filter := bson.M{"cron_enabled": true}
	switch dataType {
	case models.DataTypeProducts:
		filter["product_cron_enabled"] = true
	case models.DataTypeSales:
		filter["sales_cron_enabled"] = true
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var integrations []Integration
	if err = cursor.All(ctx, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	updates["updated_at"] = time.Now()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": updates})
	return err
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *RepositoryImpl) TouchLastSync(ctx context.Context, id string, dataType models.DataType, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	field := "last_product_sync"
	if dataType == models.DataTypeSales {
		field = "last_sales_sync"
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: at, "updated_at": time.Now()}})
	return err
}
