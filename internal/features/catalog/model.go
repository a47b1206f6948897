package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Kind string

const (
	KindCategory Kind = "category"
	KindBrand    Kind = "brand"
	KindSupplier Kind = "supplier"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCategory, KindBrand, KindSupplier:
		return true
	}
	return false
}

// Item is a shared shape for the three back-office lookup entities.
// Contact fields are only meaningful for suppliers.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID     string             `bson:"admin_id" json:"admin_id"`
	Kind        Kind               `bson:"kind" json:"kind"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ContactName string             `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
