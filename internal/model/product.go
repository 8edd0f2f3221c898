package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item in the catalog. Prices are kept as decimals
// end to end; a product is never hard-deleted while any order line,
// purchase line, or receipt line references it.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Title         string          `gorm:"type:varchar(255);not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      string          `gorm:"type:varchar(100);index" json:"category"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"selling_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
