package domain

import (
	"github.com/google/uuid" // UUID primary keys
)

// CartItem Model: one row per (user, product), quantity always >= 1.
// A quantity that would reach zero removes the row instead.
type CartItem struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey" json:"user_id"`    // Owning user
	ProductID uuid.UUID `gorm:"type:char(36);primaryKey" json:"product_id"` // Selected product
	Quantity  int       `gorm:"not null" json:"quantity"`                   // Requested quantity, positive
}
