package models

type ContextKey string

const (
	AdminIDKey ContextKey = "admin_id"
)

// DataType identifies which marketplace dataset a sync touches.
type DataType string

const (
	DataTypeProducts DataType = "products"
	DataTypeSales    DataType = "sales"
)

func (d DataType) Valid() bool {
	return d == DataTypeProducts || d == DataTypeSales
}

// Collection returns the Mongo collection that stores records of this type.
func (d DataType) Collection() string {
	if d == DataTypeSales {
		return "takealot_sales"
	}
	return "takealot_offers"
}

// Role values for back-office users. Sub-users (takealot_user, pos_user)
// are scoped under their parent admin's tenant.
type Role string

const (
	RoleSuperAdmin   Role = "superadmin"
	RoleAdmin        Role = "admin"
	RoleTakealotUser Role = "takealot_user"
	RolePOSUser      Role = "pos_user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTakealotUser, RolePOSUser:
		return true
	}
	return false
}

// Trigger records how an execution was started.
type Trigger string

const (
	TriggerCron   Trigger = "cron"
	TriggerManual Trigger = "manual"
)
