package pos

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrSKUTaken = errors.New("a product with this SKU already exists")

type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutParams struct {
	Lines       []CheckoutLine `json:"lines"`
	Discount    float64        `json:"discount"`
	PaymentType string         `json:"payment_type"`
}

type Service interface {
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error)
	ListProducts(ctx context.Context, adminID, search string) ([]Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, p *Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error

	Checkout(ctx context.Context, adminID, cashierID string, params CheckoutParams) (*Sale, error)
	ListSales(ctx context.Context, adminID string, since time.Time, limit int64) ([]Sale, error)
	DailySummaries(ctx context.Context, adminID string, days int) ([]DailySummary, error)
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Repo: repo, Logger: logger}
}

func (s *ServiceImpl) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" || p.SKU == "" {
		return nil, errors.New("name and sku are required")
	}
	if p.SellPrice < 0 || p.CostPrice < 0 || p.Stock < 0 {
		return nil, errors.New("prices and stock must not be negative")
	}
	created, err := s.Repo.CreateProduct(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSKUTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *ServiceImpl) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *ServiceImpl) ListProducts(ctx context.Context, adminID, search string) ([]Product, error) {
	return s.Repo.ListProducts(ctx, adminID, search)
}

func (s *ServiceImpl) UpdateProduct(ctx context.Context, id primitive.ObjectID, p *Product) error {
	update := bson.M{
		"category_id": p.CategoryID,
		"brand_id":    p.BrandID,
		"supplier_id": p.SupplierID,
		"cost_price":  p.CostPrice,
		"sell_price":  p.SellPrice,
	}
	if p.Name != "" {
		update["name"] = p.Name
	}
	if p.Barcode != "" {
		update["barcode"] = p.Barcode
	}
	return s.Repo.UpdateProduct(ctx, id, update)
}

func (s *ServiceImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *ServiceImpl) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	return s.Repo.AdjustStock(ctx, id, delta)
}

// Checkout decrements stock line by line before recording the sale.
// If a later line fails, the earlier decrements are put back.
func (s *ServiceImpl) Checkout(ctx context.Context, adminID, cashierID string, params CheckoutParams) (*Sale, error) {
	if len(params.Lines) == 0 {
		return nil, errors.New("sale has no lines")
	}

	sale := &Sale{
		AdminID:     adminID,
		CashierID:   cashierID,
		Discount:    params.Discount,
		PaymentType: params.PaymentType,
	}
	if sale.PaymentType == "" {
		sale.PaymentType = "cash"
	}

	var taken []SaleLine
	rollback := func() {
		for _, line := range taken {
			if err := s.Repo.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
				s.Logger.Error("stock rollback failed",
					zap.String("admin_id", adminID),
					zap.String("product_id", line.ProductID.Hex()),
					zap.Error(err))
			}
		}
	}

	for _, line := range params.Lines {
		if line.Quantity <= 0 {
			rollback()
			return nil, errors.New("line quantity must be positive")
		}
		pid, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			rollback()
			return nil, errors.New("invalid product id: " + line.ProductID)
		}
		p, err := s.Repo.GetProduct(ctx, pid)
		if err != nil || p.AdminID != adminID {
			rollback()
			return nil, errors.New("product not found: " + line.ProductID)
		}
		if err := s.Repo.DecrementStock(ctx, pid, line.Quantity); err != nil {
			rollback()
			if err == ErrInsufficientStock {
				return nil, errors.New("insufficient stock for " + p.SKU)
			}
			return nil, err
		}
		sl := SaleLine{
			ProductID: pid,
			Name:      p.Name,
			SKU:       p.SKU,
			Quantity:  line.Quantity,
			UnitPrice: p.SellPrice,
			Total:     p.SellPrice * float64(line.Quantity),
		}
		taken = append(taken, sl)
		sale.Lines = append(sale.Lines, sl)
		sale.Subtotal += sl.Total
	}

	sale.Total = sale.Subtotal - sale.Discount
	if sale.Total < 0 {
		rollback()
		return nil, errors.New("discount exceeds subtotal")
	}

	created, err := s.Repo.CreateSale(ctx, sale)
	if err != nil {
		rollback()
		return nil, err
	}

	s.Logger.Info("pos sale recorded",
		zap.String("admin_id", adminID),
		zap.String("sale_id", created.ID.Hex()),
		zap.Float64("total", created.Total),
		zap.Int("lines", len(created.Lines)))
	return created, nil
}

func (s *ServiceImpl) ListSales(ctx context.Context, adminID string, since time.Time, limit int64) ([]Sale, error) {
	return s.Repo.ListSales(ctx, adminID, since, limit)
}

func (s *ServiceImpl) DailySummaries(ctx context.Context, adminID string, days int) ([]DailySummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.Repo.DailySummaries(ctx, adminID, since)
}
