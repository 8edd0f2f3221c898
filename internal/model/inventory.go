package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch is the inventory granularity: one row per (product, batch
// number, expiry) created on goods receipt. QuantityReceived accumulates;
// availability is always derived, never stored.
type InventoryBatch struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BatchNumber      string     `gorm:"type:varchar(100);not null;index" json:"batch_number"`
	ExpiryDate       *time.Time `gorm:"index" json:"expiry_date"`
	QuantityReceived int        `gorm:"type:int;not null;default:0" json:"quantity_received"`
	ReceiptItemID    *uuid.UUID `gorm:"type:uuid" json:"receipt_item_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BatchAvailability is one row of the reservation view:
// available = received - reserved by order lines of orders that are
// neither cancelled nor delivered.
type BatchAvailability struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductTitle  string          `json:"product_title"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	BatchNumber   string          `json:"batch_number"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	Received      int             `json:"total_received"`
	Reserved      int             `json:"total_reserved"`
	Available     int             `json:"available_quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// ProductAvailability aggregates availability across all batches of a product.
type ProductAvailability struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	Received     int             `json:"total_received"`
	Reserved     int             `json:"total_reserved"`
	Available    int             `json:"available_quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}
