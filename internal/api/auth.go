package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"marketplace/internal/domain"     // Importing domain models
	"marketplace/internal/middleware" // Authenticated identity lookup
	"marketplace/internal/utils"      // Token utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`       // Display name
	Password string `json:"password" binding:"required,min=8"` // Plain password, hashed before storage
	Email    string `json:"email" binding:"required,email"`    // Unique login email
	Role     string `json:"role"`                              // Optional: customer (default) or vendor
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Plain password
}

// AuthResponse carries a freshly issued session token
type AuthResponse struct {
	Token string `json:"token"` // Signed session token
}

// RegisterHandler creates a new account with a hashed password
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Roles outside the known set are rejected instead of stored
		role := domain.RoleCustomer // Default role
		if req.Role != "" {
			parsed, err := domain.ParseRole(req.Role)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be customer or vendor"})
				return
			}
			role = parsed
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Lowercase the email so uniqueness is case-insensitive
		user := domain.User{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
			Role:         role,
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Duplicate email is a conflict, anything else a bad request
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to register user"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"role":    user.Role,  // Registered role
			"email":   user.Email, // Registered email
		}).Info("User registered")
		// Return the created user (password hash is never serialized)
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns a session token. The
// token is also set as a `token` cookie for clients that prefer cookie
// transport.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "No user found with that email"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate session token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Cookie transport fallback, 24h to match the token expiry
		c.SetCookie("token", token, 24*60*60, "/", "", false, true)
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// DashboardHandler greets the authenticated user
func DashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c) // Identity from the auth guard
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.String(http.StatusOK, "Welcome back, user ID: %s", ident.UserID)
	}
}
