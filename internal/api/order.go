package api

import (
	"net/http" // HTTP status codes

	"marketplace/internal/apperr"     // Error taxonomy
	"marketplace/internal/domain"     // Importing domain models
	"marketplace/internal/middleware" // Authenticated identity lookup
	"marketplace/internal/orders"     // Order engine

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // UUID path parameters
	"gorm.io/gorm"             // GORM ORM library
)

// UpdateOrderStatusRequest is the vendor payload for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"` // pending, shipped or delivered
}

// ListOrdersHandler lists the caller's orders; ?vendor=true switches a
// vendor to the orders containing their products
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		vendorView := c.Query("vendor") == "true" // Alternate vendor view
		summaries, err := orders.List(c.Request.Context(), db, ident, vendorView)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, summaries) // Return order summaries
	}
}

// CreateOrderHandler converts the caller's cart into an order
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		result, err := orders.Create(c.Request.Context(), db, ident)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		invalidateProductCache(c) // Stock levels changed
		c.JSON(http.StatusCreated, result)
	}
}

// GetOrderHandler returns one order with full details, subject to the
// visibility policy
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := uuid.Parse(c.Param("id")) // Parse order ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		details, err := orders.Get(c.Request.Context(), db, ident, orderID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, details) // Return order details
	}
}

// DeleteOrderHandler cancels a pending order, restoring its stock
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := uuid.Parse(c.Param("id")) // Parse order ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		if err := orders.Delete(c.Request.Context(), db, ident, orderID); err != nil {
			apperr.Respond(c, err)
			return
		}
		invalidateProductCache(c) // Stock levels changed
		c.Status(http.StatusNoContent)
	}
}

// UpdateOrderStatusHandler advances an order's status for a vendor
// with items in the order
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := uuid.Parse(c.Param("id")) // Parse order ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var req UpdateOrderStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), db, ident, orderID, domain.OrderStatus(req.Status))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order) // Return the updated order
	}
}
