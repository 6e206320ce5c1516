package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
)

// TestOrderFlow walks the whole checkout path over HTTP: cart, order
// creation, listing, detail view, vendor status update, cancellation.
func TestOrderFlow(t *testing.T) {
	r, db := newTestServer(t)
	vendorToken := registerAndLogin(t, r, "vendor@example.com", "vendor")
	customerToken := registerAndLogin(t, r, "customer@example.com", "customer")
	productID := createProduct(t, r, vendorToken, "Widget", "10.00", 5)

	// Two units in the cart
	doJSON(t, r, http.MethodPut, "/cart/add/"+productID, customerToken, nil)
	doJSON(t, r, http.MethodPut, "/cart/add/"+productID, customerToken, nil)

	// Create the order
	w := doJSON(t, r, http.MethodPost, "/orders", customerToken, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		OrderID string `json:"order_id"`
		Total   string `json:"total"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "20", created.Total[:2]) // 20 or 20.00 depending on scale

	// Stock was consumed
	var product domain.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	assert.Equal(t, 3, product.Stock)

	// Customer listing shows the order; vendor view finds it too
	w = doJSON(t, r, http.MethodGet, "/orders", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/orders?vendor=true", vendorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, created.OrderID, summaries[0].ID)

	// Detail view for the owner
	w = doJSON(t, r, http.MethodGet, "/orders/"+created.OrderID, customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")

	// Vendor advances the status
	w = doJSON(t, r, http.MethodPatch, "/orders/"+created.OrderID+"/status", vendorToken, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A shipped order can no longer be cancelled
	w = doJSON(t, r, http.MethodDelete, "/orders/"+created.OrderID, customerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderCreateRequiresCustomer(t *testing.T) {
	r, _ := newTestServer(t)
	vendorToken := registerAndLogin(t, r, "vendor@example.com", "vendor")

	w := doJSON(t, r, http.MethodPost, "/orders", vendorToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	r, _ := newTestServer(t)
	customerToken := registerAndLogin(t, r, "customer@example.com", "customer")

	w := doJSON(t, r, http.MethodPost, "/orders", customerToken, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderCancelRestoresStock(t *testing.T) {
	r, db := newTestServer(t)
	vendorToken := registerAndLogin(t, r, "vendor@example.com", "vendor")
	customerToken := registerAndLogin(t, r, "customer@example.com", "customer")
	productID := createProduct(t, r, vendorToken, "Widget", "10.00", 5)
	doJSON(t, r, http.MethodPut, "/cart/add/"+productID, customerToken, nil)

	w := doJSON(t, r, http.MethodPost, "/orders", customerToken, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		OrderID string `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, "/orders/"+created.OrderID, customerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var product domain.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	assert.Equal(t, 5, product.Stock)
}
