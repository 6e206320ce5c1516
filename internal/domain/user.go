package domain

import (
	"fmt"

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Role is the closed set of account roles. Unknown values are rejected
// at registration and at token verification instead of being stored.
type Role string

// Supported roles
const (
	RoleCustomer Role = "customer" // Builds carts and places/cancels own orders
	RoleVendor   Role = "vendor"   // Owns products; views/updates orders containing them
)

// ParseRole validates a role string coming in from the outside
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleVendor:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity is the authenticated caller as recovered from a verified token
type Identity struct {
	UserID uuid.UUID // Authenticated user ID
	Role   Role      // Authenticated role
}

// User Model
type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`    // Primary key
	Username     string    `gorm:"not null" json:"username"`              // Display name
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`     // Unique login email
	PasswordHash string    `gorm:"not null" json:"-"`                     // Bcrypt hash, never serialized
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"` // customer or vendor
}

// BeforeCreate assigns a fresh UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
