package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)
	payload := gin.H{
		"username": "first",
		"password": "supersecret",
		"email":    "dup@example.com",
	}

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Second registration with the same email conflicts
	payload["username"] = "second"
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "rooty",
		"password": "supersecret",
		"email":    "rooty@example.com",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	r, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "private",
		"password": "supersecret",
		"email":    "private@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogin(t *testing.T) {
	r, _ := newTestServer(t)
	registerAndLogin(t, r, "login@example.com", "customer")

	t.Run("unknown email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
			"email":    "nobody@example.com",
			"password": "supersecret",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
			"email":    "login@example.com",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token works against the dashboard", func(t *testing.T) {
		token := registerAndLogin(t, r, "fresh@example.com", "customer")
		w := doJSON(t, r, http.MethodGet, "/auth/dashboard", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Welcome back")
	})

	t.Run("login sets the token cookie", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
			"email":    "login@example.com",
			"password": "supersecret",
		})
		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		var found bool
		for _, c := range cookies {
			if c.Name == "token" && c.Value != "" {
				found = true
			}
		}
		assert.True(t, found, "expected a token cookie")
	})
}

func TestDashboardRequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
