package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoided = "voided"
)

// Invoice is the financial document an accountant issues for a delivered
// customer order. The subtotal is the order's recomputed item total.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Order       *CustomerOrder  `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);not null;default:'issued';index" json:"status"`
	IssuedBy    *uuid.UUID      `gorm:"type:uuid;index" json:"issued_by"`
	Issuer      *User           `gorm:"foreignKey:IssuedBy" json:"issuer,omitempty"`
	Note        string          `gorm:"type:text" json:"note"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
