package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRepo struct {
	products map[primitive.ObjectID]*Product
	sales    []*Sale
	failSale bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[primitive.ObjectID]*Product{}}
}

func (f *fakeRepo) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListProducts(ctx context.Context, adminID string, search string) ([]Product, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateProduct(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	return nil
}

func (f *fakeRepo) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	p := f.products[id]
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (f *fakeRepo) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	f.products[id].Stock += delta
	return nil
}

func (f *fakeRepo) CreateSale(ctx context.Context, s *Sale) (*Sale, error) {
	if f.failSale {
		return nil, context.DeadlineExceeded
	}
	s.ID = primitive.NewObjectID()
	f.sales = append(f.sales, s)
	return s, nil
}

func (f *fakeRepo) ListSales(ctx context.Context, adminID string, since time.Time, limit int64) ([]Sale, error) {
	return nil, nil
}

func (f *fakeRepo) DailySummaries(ctx context.Context, adminID string, since time.Time) ([]DailySummary, error) {
	return nil, nil
}

func (f *fakeRepo) EnsureIndexes(ctx context.Context) error { return nil }

func seedProduct(t *testing.T, repo *fakeRepo, sku string, price float64, stock int) primitive.ObjectID {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), &Product{
		AdminID:   "admin-1",
		Name:      sku,
		SKU:       sku,
		SellPrice: price,
		Stock:     stock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p.ID
}

func TestCheckoutTotalsAndStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())

	mugID := seedProduct(t, repo, "MUG-01", 49.99, 10)
	capID := seedProduct(t, repo, "CAP-01", 120.00, 3)

	sale, err := svc.Checkout(context.Background(), "admin-1", "cashier-1", CheckoutParams{
		Lines: []CheckoutLine{
			{ProductID: mugID.Hex(), Quantity: 2},
			{ProductID: capID.Hex(), Quantity: 1},
		},
		Discount: 19.98,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if got, want := sale.Subtotal, 2*49.99+120.00; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
	if got, want := sale.Total, sale.Subtotal-19.98; got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
	if sale.PaymentType != "cash" {
		t.Errorf("payment type defaulted to %q, want cash", sale.PaymentType)
	}
	if got := repo.products[mugID].Stock; got != 8 {
		t.Errorf("mug stock = %d, want 8", got)
	}
	if got := repo.products[capID].Stock; got != 2 {
		t.Errorf("cap stock = %d, want 2", got)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())

	mugID := seedProduct(t, repo, "MUG-01", 49.99, 10)
	capID := seedProduct(t, repo, "CAP-01", 120.00, 1)

	_, err := svc.Checkout(context.Background(), "admin-1", "cashier-1", CheckoutParams{
		Lines: []CheckoutLine{
			{ProductID: mugID.Hex(), Quantity: 4},
			{ProductID: capID.Hex(), Quantity: 5},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}

	// The mugID decrement from the first line must have been undone.
	if got := repo.products[mugID].Stock; got != 10 {
		t.Errorf("mug stock = %d, want 10 after rollback", got)
	}
	if got := repo.products[capID].Stock; got != 1 {
		t.Errorf("cap stock = %d, want 1", got)
	}
	if len(repo.sales) != 0 {
		t.Errorf("sale recorded despite failure")
	}
}

func TestCheckoutSaleWriteFailureRollsBack(t *testing.T) {
	repo := newFakeRepo()
	repo.failSale = true
	svc := NewService(repo, zap.NewNop())

	mugID := seedProduct(t, repo, "MUG-01", 49.99, 10)

	_, err := svc.Checkout(context.Background(), "admin-1", "cashier-1", CheckoutParams{
		Lines: []CheckoutLine{{ProductID: mugID.Hex(), Quantity: 3}},
	})
	if err == nil {
		t.Fatal("expected sale write error")
	}
	if got := repo.products[mugID].Stock; got != 10 {
		t.Errorf("mug stock = %d, want 10 after rollback", got)
	}
}

func TestCheckoutRejectsCrossTenantProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())

	other, err := repo.CreateProduct(context.Background(), &Product{
		AdminID: "admin-2", Name: "X", SKU: "X-01", SellPrice: 10, Stock: 5,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.Checkout(context.Background(), "admin-1", "cashier-1", CheckoutParams{
		Lines: []CheckoutLine{{ProductID: other.ID.Hex(), Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected product not found error")
	}
	if got := repo.products[other.ID].Stock; got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}
}

func TestCheckoutRejectsExcessiveDiscount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())

	mugID := seedProduct(t, repo, "MUG-01", 50, 10)

	_, err := svc.Checkout(context.Background(), "admin-1", "cashier-1", CheckoutParams{
		Lines:    []CheckoutLine{{ProductID: mugID.Hex(), Quantity: 1}},
		Discount: 60,
	})
	if err == nil {
		t.Fatal("expected discount error")
	}
	if got := repo.products[mugID].Stock; got != 10 {
		t.Errorf("stock = %d, want 10 after rollback", got)
	}
}
