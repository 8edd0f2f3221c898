package model

import (
	"time"

	"github.com/google/uuid"
)

// Wishlist entry statuses.
const (
	WishlistStatusNew       = "new"
	WishlistStatusConverted = "converted"
	WishlistStatusRejected  = "rejected"
)

// WishlistEntry is a free-form desired item an agent records for a customer.
// A manager may later convert it into a real product plus a pending
// purchase order line.
type WishlistEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int        `gorm:"type:int;not null;default:1" json:"quantity"`
	Unit      string     `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	Category  string     `gorm:"type:varchar(100)" json:"category"`
	Comment   string     `gorm:"type:text" json:"comment"`
	Status    string     `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id"` // set once converted
	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
