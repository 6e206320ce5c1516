package middleware

import (
	"net/http" // HTTP status codes

	"marketplace/internal/domain" // Role enumeration

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole rejects requests whose authenticated role does not match.
// The role comes from the verified token claims, so no database read is
// needed here.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c) // Identity set by JWTAuthMiddleware
		if !ok {
			// No identity means the auth middleware did not run or failed
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if ident.Role != role {
			// Role mismatch, forbidden
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": string(role) + " access required"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
