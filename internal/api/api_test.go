package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/domain"
	"marketplace/internal/middleware"
)

const testSecret = "test-secret"

// newTestServer builds the full route table against a throwaway sqlite
// database, mirroring the production wiring minus Redis
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	))

	r := gin.New()
	authRequired := middleware.JWTAuthMiddleware(testSecret)
	vendorOnly := middleware.RequireRole(domain.RoleVendor)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db))
	authGroup.POST("/login", api.LoginHandler(db, testSecret))
	authGroup.GET("/dashboard", authRequired, api.DashboardHandler())

	productGroup := r.Group("/products")
	productGroup.Use(authRequired)
	productGroup.GET("", api.ListProductsHandler(db, nil))
	productGroup.GET("/:id", api.GetProductHandler(db, nil))
	productGroup.POST("", vendorOnly, api.CreateProductHandler(db))
	productGroup.PUT("/:id", vendorOnly, api.UpdateProductHandler(db))
	productGroup.DELETE("/:id", vendorOnly, api.DeleteProductHandler(db))

	cartGroup := r.Group("/cart")
	cartGroup.Use(authRequired)
	cartGroup.GET("", api.GetCartHandler(db))
	cartGroup.PUT("/add/:product_id", api.AddCartItemHandler(db))
	cartGroup.DELETE("/remove/:product_id", api.RemoveCartItemHandler(db))

	orderGroup := r.Group("/orders")
	orderGroup.Use(authRequired)
	orderGroup.GET("", api.ListOrdersHandler(db))
	orderGroup.POST("", api.CreateOrderHandler(db))
	orderGroup.GET("/:id", api.GetOrderHandler(db))
	orderGroup.DELETE("/:id", api.DeleteOrderHandler(db))
	orderGroup.PATCH("/:id/status", api.UpdateOrderStatusHandler(db))

	return r, db
}

// doJSON performs a request with an optional JSON body and bearer token
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its session token
func registerAndLogin(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "tester",
		"password": "supersecret",
		"email":    email,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createProduct provisions a product through the vendor API and
// returns its id
func createProduct(t *testing.T, r *gin.Engine, vendorToken, name, price string, stock int) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/products", vendorToken, gin.H{
		"name":  name,
		"price": price,
		"stock": stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	return product.ID
}
