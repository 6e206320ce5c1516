package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"marketplace/internal/api"        // Custom package for API handlers
	"marketplace/internal/config"     // Custom package for configuration
	"marketplace/internal/domain"     // Role enumeration for route guards
	"marketplace/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db))          // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint
	authGroup.GET("/dashboard",
		middleware.JWTAuthMiddleware(cfg.JWTSecret), api.DashboardHandler()) // Authenticated greeting

	// Shared middleware: auth guard plus Redis client injection for
	// handlers that invalidate the catalog cache
	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	withRedis := func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	}

	// Product routes (reads for any authenticated user, writes vendor-only)
	productGroup := r.Group("/products")
	productGroup.Use(authRequired, withRedis)
	productGroup.GET("", api.ListProductsHandler(db, redisClient))   // Filtered catalog listing
	productGroup.GET("/:id", api.GetProductHandler(db, redisClient)) // Single product
	vendorOnly := middleware.RequireRole(domain.RoleVendor)
	productGroup.POST("", vendorOnly, api.CreateProductHandler(db))       // Create product
	productGroup.PUT("/:id", vendorOnly, api.UpdateProductHandler(db))    // Update product
	productGroup.DELETE("/:id", vendorOnly, api.DeleteProductHandler(db)) // Delete product

	// Cart routes (protected)
	cartGroup := r.Group("/cart")
	cartGroup.Use(authRequired)
	cartGroup.GET("", api.GetCartHandler(db))                              // Cart contents
	cartGroup.PUT("/add/:product_id", api.AddCartItemHandler(db))          // Add one unit
	cartGroup.DELETE("/remove/:product_id", api.RemoveCartItemHandler(db)) // Remove one unit

	// Order routes (protected)
	orderGroup := r.Group("/orders")
	orderGroup.Use(authRequired, withRedis)
	orderGroup.GET("", api.ListOrdersHandler(db))                     // Order listing (?vendor=true)
	orderGroup.POST("", api.CreateOrderHandler(db))                   // Cart to order conversion
	orderGroup.GET("/:id", api.GetOrderHandler(db))                   // Order details
	orderGroup.DELETE("/:id", api.DeleteOrderHandler(db))             // Cancel pending order
	orderGroup.PATCH("/:id/status", api.UpdateOrderStatusHandler(db)) // Vendor status update

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
