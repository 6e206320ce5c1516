package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
	"marketplace/internal/utils"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, domain.RoleVendor, testSecret)
	require.NoError(t, err)

	ident, err := utils.ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, ident.UserID)
	assert.Equal(t, domain.RoleVendor, ident.Role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT(uuid.New(), domain.RoleCustomer, testSecret)
	require.NoError(t, err)

	_, err = utils.ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTMalformed(t *testing.T) {
	_, err := utils.ParseJWT("not-a-token", testSecret)
	assert.Error(t, err)
}

// signedToken builds a token with arbitrary claims for negative cases
func signedToken(t *testing.T, claims utils.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestParseJWTExpired(t *testing.T) {
	token := signedToken(t, utils.Claims{
		Role: domain.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	})
	_, err := utils.ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseJWTUnknownRole(t *testing.T) {
	token := signedToken(t, utils.Claims{
		Role: "admin", // Outside the known role set
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err := utils.ParseJWT(token, testSecret)
	assert.Error(t, err)
}

func TestParseJWTBadSubject(t *testing.T) {
	token := signedToken(t, utils.Claims{
		Role: domain.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42", // Not a UUID
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err := utils.ParseJWT(token, testSecret)
	assert.Error(t, err)
}
