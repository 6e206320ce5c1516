package domain

import (
	"time"

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact decimal prices
	"gorm.io/gorm"                  // GORM ORM library
)

// Product Model
type Product struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`            // Primary key
	VendorID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"vendor_id"` // Owning vendor
	Name        string          `gorm:"not null" json:"name"`                          // Product name
	Description *string         `json:"description,omitempty"`                         // Optional description
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`      // Unit price, exact decimal
	Stock       int             `gorm:"not null;default:0" json:"stock"`               // Available inventory, never negative
	Category    *string         `json:"category,omitempty"`                            // Optional category
	CreatedAt   time.Time       `json:"created_at"`                                    // Timestamp of creation
	UpdatedAt   time.Time       `json:"updated_at"`                                    // Timestamp of last update
}

// BeforeCreate assigns a fresh UUID when none was set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
