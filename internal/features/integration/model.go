package integration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncPreferences hold the per-strategy opt-ins an admin can toggle from
// the back office.
type SyncPreferences struct {
	ProductPagesPerChunk int  `json:"product_pages_per_chunk,omitempty" bson:"product_pages_per_chunk,omitempty"`
	SalesMaxPages        int  `json:"sales_max_pages,omitempty" bson:"sales_max_pages,omitempty"`
	NightlyDedup         bool `json:"nightly_dedup" bson:"nightly_dedup"`
}

// Integration is one connected Takealot seller account.
type Integration struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AdminID          string             `json:"admin_id" bson:"admin_id"`
	AccountName      string             `json:"account_name" bson:"account_name"`
	APIKey           string             `json:"-" bson:"api_key"`
	AuthScheme       string             `json:"auth_scheme" bson:"auth_scheme"` // "key" (default) or "bearer"
	CronEnabled      bool               `json:"cron_enabled" bson:"cron_enabled"`
	ProductCron      bool               `json:"product_cron_enabled" bson:"product_cron_enabled"`
	SalesCron        bool               `json:"sales_cron_enabled" bson:"sales_cron_enabled"`
	SyncPreferences  SyncPreferences    `json:"sync_preferences" bson:"sync_preferences"`
	LastProductSync  *time.Time         `json:"last_product_sync,omitempty" bson:"last_product_sync,omitempty"`
	LastSalesSync    *time.Time         `json:"last_sales_sync,omitempty" bson:"last_sales_sync,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
