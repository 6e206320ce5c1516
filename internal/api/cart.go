package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"marketplace/internal/domain"     // Importing domain models
	"marketplace/internal/middleware" // Authenticated identity lookup

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // UUID path parameters
	"gorm.io/gorm"             // GORM ORM library
)

// GetCartHandler returns the authenticated user's cart items
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		items := []domain.CartItem{} // Cart items for the user
		if err := db.Where("user_id = ?", ident.UserID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		c.JSON(http.StatusOK, items) // Return cart contents
	}
}

// AddCartItemHandler adds one unit of a product to the cart: a new row
// starts at quantity 1 (201), an existing row is incremented (200)
func AddCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := uuid.Parse(c.Param("product_id")) // Parse product ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		// The product must exist before it can be carted
		var product domain.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		// Increment an existing row if there is one
		res := db.Model(&domain.CartItem{}).
			Where("user_id = ? AND product_id = ?", ident.UserID, productID).
			Update("quantity", gorm.Expr("quantity + 1"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		if res.RowsAffected > 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity incremented"})
			return
		}
		// Otherwise create the row at quantity 1
		item := domain.CartItem{UserID: ident.UserID, ProductID: productID, Quantity: 1}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart"})
	}
}

// RemoveCartItemHandler removes one unit of a product from the cart;
// the row disappears when its quantity would reach zero
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := uuid.Parse(c.Param("product_id")) // Parse product ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		// Decrement while more than one unit remains
		res := db.Model(&domain.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity > 1", ident.UserID, productID).
			Update("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		// At one unit (or already absent) the row is deleted
		if res.RowsAffected == 0 {
			if err := db.Where("user_id = ? AND product_id = ?", ident.UserID, productID).
				Delete(&domain.CartItem{}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
				return
			}
		}
		c.Status(http.StatusNoContent)
	}
}
