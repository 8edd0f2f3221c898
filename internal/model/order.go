package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer order statuses. The lifecycle runs strictly forward through
// picking and shipment; cancelled is an absorbing alternate reachable
// from any non-terminal state.
const (
	OrderStatusNew              = "new"
	OrderStatusPicking          = "picking"
	OrderStatusReadyForShipment = "ready_for_shipment"
	OrderStatusShipped          = "shipped"
	OrderStatusDelivered        = "delivered"
	OrderStatusCancelled        = "cancelled"
)

// orderTransitions is the forward transition graph for customer orders.
var orderTransitions = map[string][]string{
	OrderStatusNew:              {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:          {OrderStatusReadyForShipment, OrderStatusCancelled},
	OrderStatusReadyForShipment: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:          {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:        {},
	OrderStatusCancelled:        {},
}

// CanTransitionOrder reports whether from -> to is a legal customer order
// transition. The manager/owner status override deliberately bypasses this.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether status names a known order state.
func ValidOrderStatus(status string) bool {
	_, ok := orderTransitions[status]
	return ok
}

// OrderTerminal reports whether status is an absorbing state.
func OrderTerminal(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// CustomerOrder is a sales order created by an agent against available inventory.
type CustomerOrder struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode        string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	CustomerID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer         *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status           string              `gorm:"type:varchar(30);not null;default:'new';index" json:"status"`
	Priority         bool                `gorm:"default:false" json:"priority"`
	Comment          string              `gorm:"type:text" json:"comment"`
	DeliveryPhotoURL string              `gorm:"type:varchar(512)" json:"delivery_photo_url"`
	DeliveredAt      *time.Time          `json:"delivered_at"`
	CreatedBy        *uuid.UUID          `gorm:"type:uuid;index" json:"created_by"`
	Creator          *User               `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items            []CustomerOrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// CustomerOrderItem is a single order line. BatchID is set when the agent
// sold from a specific inventory batch; otherwise the line reserves at
// the product level.
type CustomerOrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BatchID      *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_per_unit"`
}

// Total returns sum(quantity * price_per_unit) over the order's items.
// The stored representation never caches this; it is recomputed on read.
func (o *CustomerOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
