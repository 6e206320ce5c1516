package domain

import (
	"time"

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact decimal totals
	"gorm.io/gorm"                  // GORM ORM library
)

// OrderStatus is the closed set of order states
type OrderStatus string

// Order lifecycle states
const (
	OrderPending   OrderStatus = "pending"   // Created, still cancellable by the customer
	OrderShipped   OrderStatus = "shipped"   // On its way
	OrderDelivered OrderStatus = "delivered" // Terminal state
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
// Transitions are forward-only: pending -> shipped -> delivered.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderShipped
	case OrderShipped:
		return next == OrderDelivered
	}
	return false
}

// Order Model
type Order struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`          // Primary key
	UserID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"user_id"` // Owning customer
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`    // Sum of item price * quantity at creation
	Status    OrderStatus     `gorm:"type:varchar(16);not null" json:"status"`     // pending, shipped or delivered
	CreatedAt time.Time       `json:"created_at"`                                  // Timestamp of creation
}

// BeforeCreate assigns a fresh UUID when none was set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem Model: immutable snapshot of one purchased line.
// Price is captured at purchase time and never re-read from Product.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`            // Primary key
	OrderID   uuid.UUID       `gorm:"type:char(36);not null;index" json:"order_id"`  // Parent order
	ProductID uuid.UUID       `gorm:"type:char(36);not null" json:"product_id"`      // Purchased product
	VendorID  uuid.UUID       `gorm:"type:char(36);not null;index" json:"vendor_id"` // Vendor owning the product at purchase time
	Quantity  int             `gorm:"not null" json:"quantity"`                      // Purchased quantity
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`      // Unit price snapshot
}

// BeforeCreate assigns a fresh UUID when none was set
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
