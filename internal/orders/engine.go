package orders

import (
	"context" // Request-scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error message formatting

	"github.com/google/uuid"        // UUID identifiers
	"github.com/shopspring/decimal" // Exact decimal money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library

	"marketplace/internal/apperr" // Error taxonomy
	"marketplace/internal/domain" // Domain models
)

// Create converts the caller's cart into a persisted order. Stock
// validation, total computation, order and item inserts, stock
// decrements and cart clearing all happen in one transaction: either
// everything commits or nothing persists. Only customers may order.
func Create(ctx context.Context, db *gorm.DB, ident domain.Identity) (*CreationResult, error) {
	if ident.Role != domain.RoleCustomer {
		return nil, apperr.Forbidden("Only customers can create orders")
	}
	var result *CreationResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Read the cart joined with current product price, stock and vendor
		var lines []cartLine
		if err := tx.Table("cart_items").
			Select("cart_items.product_id, cart_items.quantity, products.name AS product_name, products.price, products.vendor_id, products.stock").
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.user_id = ?", ident.UserID).
			Scan(&lines).Error; err != nil {
			return apperr.Internal("Failed to fetch cart items", err)
		}
		if len(lines) == 0 {
			return apperr.BadRequest("Cart is empty. Add items to cart before creating an order")
		}
		// Validate stock and compute the exact total
		total := decimal.Zero
		for _, ln := range lines {
			if ln.Stock < ln.Quantity {
				// First insufficient item aborts the whole operation
				return apperr.Conflict(fmt.Sprintf(
					"Insufficient stock for product %s. Requested: %d, Available: %d",
					ln.ProductName, ln.Quantity, ln.Stock))
			}
			total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
		}
		// Insert the order row
		order := domain.Order{
			UserID: ident.UserID,        // Owning customer
			Total:  total,               // Computed total
			Status: domain.OrderPending, // New orders start pending
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperr.Internal("Failed to create order", err)
		}
		// Snapshot each line and consume its stock
		for _, ln := range lines {
			item := domain.OrderItem{
				OrderID:   order.ID,     // Parent order
				ProductID: ln.ProductID, // Purchased product
				VendorID:  ln.VendorID,  // Vendor at purchase time
				Quantity:  ln.Quantity,  // Purchased quantity
				Price:     ln.Price,     // Unit price snapshot
			}
			if err := tx.Create(&item).Error; err != nil {
				return apperr.Internal("Failed to create order item", err)
			}
			// Conditional decrement: the stock >= quantity guard makes two
			// concurrent checkouts race-free without application locks
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", ln.ProductID, ln.Quantity).
				Update("stock", gorm.Expr("stock - ?", ln.Quantity))
			if res.Error != nil {
				return apperr.Internal("Failed to update product stock", res.Error)
			}
			if res.RowsAffected == 0 {
				// A concurrent order consumed the stock after our read
				return apperr.Conflict(fmt.Sprintf(
					"Insufficient stock for product %s. Requested: %d, Available: %d",
					ln.ProductName, ln.Quantity, ln.Stock))
			}
		}
		// Clear the cart
		if err := tx.Where("user_id = ?", ident.UserID).Delete(&domain.CartItem{}).Error; err != nil {
			return apperr.Internal("Failed to clear cart", err)
		}
		result = &CreationResult{
			OrderID: order.ID,
			Total:   total,
			Status:  order.Status,
			Message: "Order created successfully! Payment processed.",
		}
		return nil // Commit transaction
	})
	if err != nil {
		return nil, err
	}
	// Payment is simulated and always succeeds once the order persists
	logrus.WithFields(logrus.Fields{
		"user_id":  ident.UserID,          // Ordering customer
		"order_id": result.OrderID,        // New order
		"total":    result.Total.String(), // Order total
	}).Info("Order created")
	return result, nil
}

// Delete removes a pending order owned by the caller, restoring the
// stock its items consumed. Non-pending orders are rejected without any
// mutation.
func Delete(ctx context.Context, db *gorm.DB, ident domain.Identity, orderID uuid.UUID) error {
	if ident.Role != domain.RoleCustomer {
		return apperr.Forbidden("Only customers can delete orders")
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		// Ownership is part of the lookup, so foreign orders read as missing
		if err := tx.Where("id = ? AND user_id = ?", orderID, ident.UserID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found or you don't have permission to delete it")
			}
			return apperr.Internal("Failed to fetch order", err)
		}
		if order.Status != domain.OrderPending {
			return apperr.Conflict(fmt.Sprintf(
				"Cannot delete order with status '%s'. Only pending orders can be deleted", order.Status))
		}
		// Restore exactly the stock the order consumed
		var items []domain.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return apperr.Internal("Failed to fetch order items", err)
		}
		for _, item := range items {
			if err := tx.Model(&domain.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return apperr.Internal("Failed to restore product stock", err)
			}
		}
		// Remove the items, then the order
		if err := tx.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
			return apperr.Internal("Failed to delete order items", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return apperr.Internal("Failed to delete order", err)
		}
		return nil // Commit transaction
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  ident.UserID, // Owning customer
		"order_id": orderID,      // Deleted order
	}).Info("Order deleted, stock restored")
	return nil
}

// UpdateStatus advances an order's status on behalf of a vendor with at
// least one item in the order. Transitions are forward-only:
// pending -> shipped -> delivered.
func UpdateStatus(ctx context.Context, db *gorm.DB, ident domain.Identity, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if ident.Role != domain.RoleVendor {
		return nil, apperr.Forbidden("Only vendors can update order status")
	}
	if !next.Valid() {
		return nil, apperr.BadRequest(fmt.Sprintf(
			"Invalid status '%s'. Valid statuses are: pending, shipped, delivered", next))
	}
	var order domain.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The vendor must have products in the order
		var vendorItems int64
		if err := tx.Model(&domain.OrderItem{}).
			Where("order_id = ? AND vendor_id = ?", orderID, ident.UserID).
			Count(&vendorItems).Error; err != nil {
			return apperr.Internal("Failed to verify vendor access", err)
		}
		if vendorItems == 0 {
			return apperr.Forbidden("You don't have permission to update this order. No products from your store in this order")
		}
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found")
			}
			return apperr.Internal("Failed to fetch order", err)
		}
		if !order.Status.CanTransition(next) {
			return apperr.Conflict(fmt.Sprintf(
				"Order status cannot move from '%s' to '%s'", order.Status, next))
		}
		// Single-row write, no stock or total side effects
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return apperr.Internal("Failed to update order status", err)
		}
		order.Status = next
		return nil // Commit transaction
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"vendor_id": ident.UserID, // Updating vendor
		"order_id":  orderID,      // Updated order
		"status":    next,         // New status
	}).Info("Order status updated")
	return &order, nil
}
