package user

import (
	"time"

	"sellersync/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Role      models.Role        `bson:"role" json:"role"`
	AdminID   string             `bson:"admin_id" json:"admin_id"` // parent tenant; for admins this is their own id
	Status    string             `bson:"status" json:"status"`     // active, suspended
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
