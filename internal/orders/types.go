package orders

import (
	"time"

	"github.com/google/uuid"        // UUID identifiers
	"github.com/shopspring/decimal" // Exact decimal money

	"marketplace/internal/domain" // Order status enumeration
)

// CreationResult confirms a successful cart-to-order conversion
type CreationResult struct {
	OrderID uuid.UUID          `json:"order_id"` // New order identifier
	Total   decimal.Decimal    `json:"total"`    // Exact order total
	Status  domain.OrderStatus `json:"status"`   // Always pending at creation
	Message string             `json:"message"`  // Confirmation message
}

// Summary is one row of an order listing
type Summary struct {
	ID        uuid.UUID          `json:"id"`         // Order identifier
	Total     decimal.Decimal    `json:"total"`      // Order total
	Status    domain.OrderStatus `json:"status"`     // Current status
	CreatedAt time.Time          `json:"created_at"` // Creation timestamp
	ItemCount int64              `json:"item_count"` // Number of distinct products in the order
}

// ItemDetails is one purchased line with its product name and subtotal
type ItemDetails struct {
	ID          uuid.UUID       `json:"id"`           // Order item identifier
	ProductID   uuid.UUID       `json:"product_id"`   // Purchased product
	ProductName string          `json:"product_name"` // Current product name
	VendorID    uuid.UUID       `json:"vendor_id"`    // Vendor at purchase time
	Quantity    int             `json:"quantity"`     // Purchased quantity
	Price       decimal.Decimal `json:"price"`        // Unit price snapshot
	Subtotal    decimal.Decimal `json:"subtotal"`     // Price * quantity
}

// Details is a full order with its lines
type Details struct {
	ID        uuid.UUID          `json:"id"`         // Order identifier
	UserID    uuid.UUID          `json:"user_id"`    // Owning customer
	Total     decimal.Decimal    `json:"total"`      // Order total
	Status    domain.OrderStatus `json:"status"`     // Current status
	CreatedAt time.Time          `json:"created_at"` // Creation timestamp
	Items     []ItemDetails      `json:"items"`      // Purchased lines
}

// decimalFromInt lifts a quantity into decimal arithmetic
func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// cartLine is the scan target for the cart/product join used during
// order creation
type cartLine struct {
	ProductID   uuid.UUID       // Selected product
	Quantity    int             // Requested quantity
	ProductName string          // Product name, for error messages
	Price       decimal.Decimal // Current unit price
	VendorID    uuid.UUID       // Owning vendor
	Stock       int             // Available stock at read time
}
