package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"marketplace/internal/domain"     // Importing domain models
	"marketplace/internal/middleware" // Authenticated identity lookup
	"marketplace/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // UUID path parameters
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal prices
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// CreateProductRequest is the vendor payload for a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`  // Product name
	Description *string         `json:"description"`              // Optional description
	Price       decimal.Decimal `json:"price" binding:"required"` // Unit price, exact decimal
	Stock       int             `json:"stock" binding:"gte=0"`    // Initial stock, non-negative
	Category    *string         `json:"category"`                 // Optional category
}

// UpdateProductRequest carries optional fields; absent fields keep
// their current values
type UpdateProductRequest struct {
	Name        *string          `json:"name"`        // New name
	Description *string          `json:"description"` // New description
	Price       *decimal.Decimal `json:"price"`       // New price
	Stock       *int             `json:"stock"`       // New stock level
	Category    *string          `json:"category"`    // New category
}

// productCacheTTL bounds catalog staleness
const productCacheTTL = 60 * time.Second

// listCacheKey builds the listing cache key from the filter and
// pagination parameters
func listCacheKey(category, search, minPrice, maxPrice string, page, pageSize int) string {
	return "products:cat=" + category + ":q=" + search +
		":min=" + minPrice + ":max=" + maxPrice +
		":page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
}

// invalidateProductCache drops the per-product entry and the first few
// pages of the unfiltered listing after any product or stock mutation
func invalidateProductCache(c *gin.Context, productIDs ...uuid.UUID) {
	rdbVal, exists := c.Get("redisClient")
	if !exists {
		return // Caching not wired up (tests)
	}
	rdb, ok := rdbVal.(*redis.Client)
	if !ok {
		return
	}
	ctx := context.Background() // Context for Redis operations
	for _, id := range productIDs {
		_ = utils.DeleteCache(ctx, rdb, "product:"+id.String()) // Invalidate product cache
	}
	// Invalidate the first pages of the default listing (simple version)
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, listCacheKey("", "", "", "", i, 20))
	}
}

// ListProductsHandler returns the catalog with optional filters,
// paginated and cached. Filters are parameterized predicates, never
// interpolated into query text.
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")  // Optional category filter
		search := c.Query("search")      // Optional name search
		minPrice := c.Query("min_price") // Optional lower price bound
		maxPrice := c.Query("max_price") // Optional upper price bound
		page := 1                        // Default page
		pageSize := 20                   // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		ctx := context.Background() // Context for Redis operations
		cacheKey := listCacheKey(category, search, minPrice, maxPrice, page, pageSize)
		var cached struct {
			Products   []domain.Product `json:"products"`    // Page of products
			Page       int              `json:"page"`        // Current page
			PageSize   int              `json:"page_size"`   // Page size
			Total      int64            `json:"total"`       // Total matching products
			TotalPages int              `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"products":    cached.Products,   // Page of products
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total matching products
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Served from cache
			})
			return
		}
		// Build the filter as parameterized predicates
		query := db.Model(&domain.Product{})
		if category != "" {
			query = query.Where("category = ?", category) // Filter by category
		}
		if search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%") // Filter by name
		}
		if minPrice != "" {
			if v, err := decimal.NewFromString(minPrice); err == nil {
				query = query.Where("price >= ?", v) // Lower price bound
			}
		}
		if maxPrice != "" {
			if v, err := decimal.NewFromString(maxPrice); err == nil {
				query = query.Where("price <= ?", v) // Upper price bound
			}
		}
		var total int64 // Total matching products
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}
		products := []domain.Product{} // Page of products
		offset := (page - 1) * pageSize
		if err := query.Order("name").Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := gin.H{
			"products":    products,   // Page of products
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total matching products
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, productCacheTTL) // Cache the page
		c.JSON(http.StatusOK, resp)
	}
}

// GetProductHandler returns a single product, cached
func GetProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id")) // Parse product ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		ctx := context.Background()                 // Context for Redis operations
		cacheKey := "product:" + productID.String() // Cache key for this product
		var product domain.Product
		found, err := utils.GetCache(ctx, rdb, cacheKey, &product)
		if err == nil && found {
			c.JSON(http.StatusOK, product) // Return cached product
			return
		}
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, product, productCacheTTL) // Cache the product
		c.JSON(http.StatusOK, product)
	}
}

// CreateProductHandler creates a product owned by the calling vendor.
// The vendor ID comes from the verified token, never from the payload.
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Price.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
			return
		}
		product := domain.Product{
			VendorID:    ident.UserID,    // Owner is the calling vendor
			Name:        req.Name,        // Product name
			Description: req.Description, // Optional description
			Price:       req.Price,       // Unit price
			Stock:       req.Stock,       // Initial stock
			Category:    req.Category,    // Optional category
		}
		if err := db.Create(&product).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"vendor_id": ident.UserID, // Owning vendor
				"error":     err.Error(),  // Error message
			}).Error("Failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		invalidateProductCache(c, product.ID) // Listing pages are now stale
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProductHandler updates fields of a product owned by the caller
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := uuid.Parse(c.Param("id")) // Parse product ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var req UpdateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
			return
		}
		var product domain.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		// Only the owning vendor may mutate the product
		if product.VendorID != ident.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this product"})
			return
		}
		// Apply only the fields that were provided
		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Price != nil {
			if req.Price.Sign() <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
				return
			}
			updates["price"] = *req.Price
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
				return
			}
			updates["stock"] = *req.Stock
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}
		invalidateProductCache(c, product.ID) // Cached copies are now stale
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProductHandler removes a product owned by the caller
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := uuid.Parse(c.Param("id")) // Parse product ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		// Ownership is part of the delete predicate
		res := db.Where("id = ? AND vendor_id = ?", productID, ident.UserID).Delete(&domain.Product{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		invalidateProductCache(c, productID) // Cached copies are now stale
		c.Status(http.StatusNoContent)
	}
}
