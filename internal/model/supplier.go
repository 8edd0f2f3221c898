package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier mirrors Customer for the inbound side of the supply chain.
type Supplier struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	TIN          string         `gorm:"type:varchar(50)" json:"tin"`
	KPP          string         `gorm:"type:varchar(50)" json:"kpp"`
	Address      string         `gorm:"type:text" json:"address"`
	PaymentTerms string         `gorm:"type:varchar(255)" json:"payment_terms"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Comment      string         `gorm:"type:text" json:"comment"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
