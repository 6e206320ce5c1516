package utils

import (
	"time" // Time for token expiration

	"marketplace/internal/domain" // Role enumeration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // UUID user identifiers
)

// Claims carried by a session token: subject is the user ID, role is
// the account role, expiry is 24h after issue.
type Claims struct {
	Role                 domain.Role `json:"role"` // Custom claim for the account role
	jwt.RegisteredClaims             // Standard claims (sub, exp, iat)
}

// GenerateJWT creates a signed session token for a user
func GenerateJWT(userID uuid.UUID, role domain.Role, secret string) (string, error) {
	// Set token claims
	claims := Claims{
		Role: role, // Custom claim for the account role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),                                    // User ID as subject
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),                     // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a session token, returning the
// authenticated identity. It fails on a bad signature, malformed
// payload, past expiry, or a role outside the known set.
func ParseJWT(tokenStr, secret string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject // Subject must be a user UUID
	}
	role, err := domain.ParseRole(string(claims.Role))
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims // Reject roles outside the known set
	}
	return &domain.Identity{UserID: userID, Role: role}, nil
}
