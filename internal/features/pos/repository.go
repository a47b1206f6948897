package pos

import (
	"context"
	"errors"
	"time"

	"sellersync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type Repository interface {
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error)
	ListProducts(ctx context.Context, adminID string, search string) ([]Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update bson.M) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error

	CreateSale(ctx context.Context, s *Sale) (*Sale, error)
	ListSales(ctx context.Context, adminID string, since time.Time, limit int64) ([]Sale, error)
	DailySummaries(ctx context.Context, adminID string, since time.Time) ([]DailySummary, error)

	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	products *mongo.Collection
	sales    *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		products: db.DB.Collection("pos_products"),
		sales:    db.DB.Collection("pos_sales"),
	}
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "admin_id", Value: 1},
			{Key: "sku", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = r.sales.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "admin_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

func (r *RepositoryImpl) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.products.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (r *RepositoryImpl) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	if err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) ListProducts(ctx context.Context, adminID string, search string) ([]Product, error) {
	filter := bson.M{"admin_id": adminID}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"sku": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"barcode": search},
		}
	}
	cur, err := r.products.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RepositoryImpl) UpdateProduct(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	_, err := r.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *RepositoryImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DecrementStock only succeeds when enough stock remains, so two
// concurrent sales cannot oversell the same unit.
func (r *RepositoryImpl) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.products.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *RepositoryImpl) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.products.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": delta},
			"$set": bson.M{"updated_at": time.Now()},
		})
	return err
}

func (r *RepositoryImpl) CreateSale(ctx context.Context, s *Sale) (*Sale, error) {
	s.CreatedAt = time.Now()
	res, err := r.sales.InsertOne(ctx, s)
	if err != nil {
		return nil, err
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return s, nil
}

func (r *RepositoryImpl) ListSales(ctx context.Context, adminID string, since time.Time, limit int64) ([]Sale, error) {
	filter := bson.M{"admin_id": adminID}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since}
	}
	if limit <= 0 {
		limit = 100
	}
	cur, err := r.sales.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Sale
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RepositoryImpl) DailySummaries(ctx context.Context, adminID string, since time.Time) ([]DailySummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"admin_id":   adminID,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"items": bson.M{"$sum": "$lines.quantity"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"sale_count":  bson.M{"$sum": 1},
			"items_sold":  bson.M{"$sum": "$items"},
			"gross_total": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}
	cur, err := r.sales.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DailySummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
