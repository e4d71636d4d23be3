package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", "emp@example.com", true)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, TokenTypeAccess, claims["type"])

	identity, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, Identity{EmployeeID: "emp-1", Email: "emp@example.com", IsAdmin: true}, identity)
}

func TestGenerateStreamToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateStreamToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, TokenTypeStream, claims["type"])

	identity, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", identity.EmployeeID)
	assert.False(t, identity.IsAdmin)
}

func TestDecode_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour).GenerateAccessToken("emp-1", "", false)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestIdentityFromClaims_MissingEmployee(t *testing.T) {
	_, err := IdentityFromClaims(map[string]interface{}{"email": "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestValidateStreamToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	streamToken, _, err := svc.GenerateStreamToken("emp-1")
	require.NoError(t, err)

	employeeID, err := svc.ValidateStreamToken(streamToken)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)

	accessToken, _, err := svc.GenerateAccessToken("emp-1", "", false)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateStreamToken("not-a-token")
	assert.Error(t, err)
}
