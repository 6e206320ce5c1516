package orders

import (
	"context" // Request-scoped cancellation
	"errors"  // Error matching

	"github.com/google/uuid" // UUID identifiers
	"gorm.io/gorm"           // GORM ORM library

	"marketplace/internal/apperr" // Error taxonomy
	"marketplace/internal/domain" // Domain models
)

// canView applies the role-based visibility rules: a customer sees only
// their own orders, a vendor sees orders containing their products.
func canView(db *gorm.DB, ident domain.Identity, order *domain.Order) (bool, error) {
	switch ident.Role {
	case domain.RoleCustomer:
		return order.UserID == ident.UserID, nil
	case domain.RoleVendor:
		var vendorItems int64
		if err := db.Model(&domain.OrderItem{}).
			Where("order_id = ? AND vendor_id = ?", order.ID, ident.UserID).
			Count(&vendorItems).Error; err != nil {
			return false, err
		}
		return vendorItems > 0, nil
	}
	return false, nil // Any other role is denied
}

// Get returns one order with full line details, guarded by the
// visibility policy
func Get(ctx context.Context, db *gorm.DB, ident domain.Identity, orderID uuid.UUID) (*Details, error) {
	tx := db.WithContext(ctx)
	var order domain.Order
	if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("Failed to fetch order", err)
	}
	allowed, err := canView(tx, ident, &order)
	if err != nil {
		return nil, apperr.Internal("Failed to verify order access", err)
	}
	if !allowed {
		return nil, apperr.Forbidden("You don't have permission to view this order")
	}
	// Load the line items with their product names
	var items []ItemDetails
	if err := tx.Table("order_items").
		Select("order_items.id, order_items.product_id, products.name AS product_name, order_items.vendor_id, order_items.quantity, order_items.price").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", order.ID).
		Order("order_items.id").
		Scan(&items).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch order items", err)
	}
	for i := range items {
		items[i].Subtotal = items[i].Price.Mul(decimalFromInt(items[i].Quantity))
	}
	return &Details{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		Items:     items,
	}, nil
}

// List returns order summaries for the caller. The default view is the
// caller's own orders; vendorView narrows to orders containing the
// vendor's products, using the same join the visibility policy uses.
func List(ctx context.Context, db *gorm.DB, ident domain.Identity, vendorView bool) ([]Summary, error) {
	tx := db.WithContext(ctx)
	summaries := []Summary{}
	if vendorView {
		if ident.Role != domain.RoleVendor {
			return nil, apperr.Forbidden("Vendor order view requires a vendor account")
		}
		if err := tx.Table("orders").
			Select("orders.id, orders.total, orders.status, orders.created_at, COUNT(order_items.id) AS item_count").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("order_items.vendor_id = ?", ident.UserID).
			Group("orders.id, orders.total, orders.status, orders.created_at").
			Order("orders.created_at DESC").
			Scan(&summaries).Error; err != nil {
			return nil, apperr.Internal("Failed to fetch vendor orders", err)
		}
		return summaries, nil
	}
	if err := tx.Table("orders").
		Select("orders.id, orders.total, orders.status, orders.created_at, COUNT(order_items.id) AS item_count").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ?", ident.UserID).
		Group("orders.id, orders.total, orders.status, orders.created_at").
		Order("orders.created_at DESC").
		Scan(&summaries).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch customer orders", err)
	}
	return summaries, nil
}
