package pos

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID    string             `bson:"admin_id" json:"admin_id"`
	Name       string             `bson:"name" json:"name"`
	SKU        string             `bson:"sku" json:"sku"`
	Barcode    string             `bson:"barcode,omitempty" json:"barcode,omitempty"`
	CategoryID string             `bson:"category_id,omitempty" json:"category_id,omitempty"`
	BrandID    string             `bson:"brand_id,omitempty" json:"brand_id,omitempty"`
	SupplierID string             `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	CostPrice  float64            `bson:"cost_price" json:"cost_price"`
	SellPrice  float64            `bson:"sell_price" json:"sell_price"`
	Stock      int                `bson:"stock" json:"stock"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type SaleLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	SKU       string             `bson:"sku" json:"sku"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Total     float64            `bson:"total" json:"total"`
}

type Sale struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID     string             `bson:"admin_id" json:"admin_id"`
	CashierID   string             `bson:"cashier_id" json:"cashier_id"`
	Lines       []SaleLine         `bson:"lines" json:"lines"`
	Subtotal    float64            `bson:"subtotal" json:"subtotal"`
	Discount    float64            `bson:"discount" json:"discount"`
	Total       float64            `bson:"total" json:"total"`
	PaymentType string             `bson:"payment_type" json:"payment_type"` // cash, card
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// DailySummary aggregates a single day of POS trade.
type DailySummary struct {
	Date       string  `bson:"_id" json:"date"`
	SaleCount  int64   `bson:"sale_count" json:"sale_count"`
	ItemsSold  int64   `bson:"items_sold" json:"items_sold"`
	GrossTotal float64 `bson:"gross_total" json:"gross_total"`
}
