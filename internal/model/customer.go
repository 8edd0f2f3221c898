package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buying counterparty managed by an agent.
// TIN/KPP are the tax identifiers printed on invoices.
type Customer struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	TIN             string         `gorm:"type:varchar(50)" json:"tin"`
	KPP             string         `gorm:"type:varchar(50)" json:"kpp"`
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address"`
	PaymentTerms    string         `gorm:"type:varchar(255)" json:"payment_terms"`
	Phone           string         `gorm:"type:varchar(50)" json:"phone"`
	Email           string         `gorm:"type:varchar(255)" json:"email"`
	Comment         string         `gorm:"type:text" json:"comment"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid;index" json:"created_by"` // agent or owner who created the record
	Creator         *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
