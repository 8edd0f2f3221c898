package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionCreateCustomer = "CREATE_CUSTOMER"
	ActionUpdateCustomer = "UPDATE_CUSTOMER"
	ActionDeleteCustomer = "DELETE_CUSTOMER"
	ActionCreateSupplier = "CREATE_SUPPLIER"
	ActionUpdateSupplier = "UPDATE_SUPPLIER"
	ActionDeleteSupplier = "DELETE_SUPPLIER"

	ActionCreateOrder         = "CREATE_ORDER"
	ActionUpdateOrderStatus   = "UPDATE_ORDER_STATUS"
	ActionOverrideOrderStatus = "OVERRIDE_ORDER_STATUS"
	ActionDeliverOrder        = "DELIVER_ORDER"
	ActionDeleteOrder         = "DELETE_ORDER"

	ActionCreatePurchaseOrder = "CREATE_PURCHASE_ORDER"
	ActionUpdatePurchaseOrder = "UPDATE_PURCHASE_ORDER_STATUS"
	ActionReceivePurchase     = "RECEIVE_PURCHASE_ORDER"
	ActionFinalizeReceipt     = "FINALIZE_RECEIPT"

	ActionCreateInvoice        = "CREATE_INVOICE"
	ActionConvertWishlist      = "CONVERT_WISHLIST_ENTRY"
	ActionDeleteInventoryGroup = "DELETE_INVENTORY_GROUP"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
