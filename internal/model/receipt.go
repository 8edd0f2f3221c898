package model

import (
	"time"

	"github.com/google/uuid"
)

// Goods receipt statuses. A draft persists operator input without touching
// inventory; finalizing writes batch rows and closes the purchase order.
const (
	ReceiptStatusDraft = "draft"
	ReceiptStatusFinal = "final"
)

// DefaultExpiryPeriod is applied when a receipt line carries no expiry date
// (the direct receive path); the receiving form always requires one.
const DefaultExpiryPeriod = 365 * 24 * time.Hour

// GoodsReceipt records the physical receipt of a purchase order.
type GoodsReceipt struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID          `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder     `gorm:"foreignKey:PurchaseOrderID" json:"purchase_order,omitempty"`
	Status          string             `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Note            string             `gorm:"type:text" json:"note"`
	CreatedBy       *uuid.UUID         `gorm:"type:uuid;index" json:"created_by"`
	Items           []GoodsReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// GoodsReceiptItem is one received purchase line: batch number, expiry and
// the quantity actually counted at the dock.
type GoodsReceiptItem struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiptID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"receipt_id"`
	PurchaseOrderItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"purchase_order_item_id"`
	ProductID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchNumber         string     `gorm:"type:varchar(100);not null" json:"batch_number"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	QuantityReceived    int        `gorm:"type:int;not null" json:"quantity_received"`
	Note                string     `gorm:"type:text" json:"note"`
	Confirmed           bool       `gorm:"default:false" json:"confirmed"`
}
