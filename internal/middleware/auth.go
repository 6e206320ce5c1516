package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"marketplace/internal/domain" // Identity type
	"marketplace/internal/utils"  // Token utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// identityKey is the gin context key holding the authenticated identity
const identityKey = "identity"

// JWTAuthMiddleware validates session tokens and exposes the
// authenticated identity to downstream handlers. The token is taken
// from the Authorization: Bearer header first, then from the `token`
// cookie as a fallback.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := "" // Token string to validate
		// Prefer the Authorization header
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
		// Fallback: token cookie
		if tokenStr == "" {
			if v, err := c.Cookie("token"); err == nil {
				tokenStr = v
			}
		}
		// No token from either source
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
			return
		}
		ident, err := utils.ParseJWT(tokenStr, secret) // Parse and validate the token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(identityKey, *ident) // Store identity in context
		c.Next()                   // Proceed to the next handler
	}
}

// CurrentIdentity returns the authenticated identity set by
// JWTAuthMiddleware, if any
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return domain.Identity{}, false
	}
	ident, ok := v.(domain.Identity)
	return ident, ok
}
