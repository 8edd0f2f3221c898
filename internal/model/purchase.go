package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses for inbound supply.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusInTransit = "in_transit"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

var purchaseTransitions = map[string][]string{
	PurchaseStatusPending:   {PurchaseStatusOrdered, PurchaseStatusCancelled},
	PurchaseStatusOrdered:   {PurchaseStatusInTransit, PurchaseStatusCancelled},
	PurchaseStatusInTransit: {PurchaseStatusReceived, PurchaseStatusCancelled},
	PurchaseStatusReceived:  {},
	PurchaseStatusCancelled: {},
}

// CanTransitionPurchase reports whether from -> to is a legal purchase
// order transition.
func CanTransitionPurchase(from, to string) bool {
	for _, next := range purchaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidPurchaseStatus reports whether status names a known purchase state.
func ValidPurchaseStatus(status string) bool {
	_, ok := purchaseTransitions[status]
	return ok
}

// PurchaseOrder is an inbound supply order against a supplier.
type PurchaseOrder struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode    string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier     *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status       string              `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	ExpectedDate *time.Time          `json:"expected_date"`
	ReceivedAt   *time.Time          `json:"received_at"`
	Comment      string              `gorm:"type:text" json:"comment"`
	CreatedBy    *uuid.UUID          `gorm:"type:uuid;index" json:"created_by"`
	Creator      *User               `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// PurchaseOrderItem is a single purchase line.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	PricePerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_per_unit"`
}

// Total returns sum(quantity * price_per_unit) over the purchase lines.
func (p *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
