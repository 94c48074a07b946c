package jwt_test

import (
	"testing"
	"time"

	"tabitha-home/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := jwt.Generate(42, "manager", secret, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.Validate(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.StaffID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "tabitha-home", claims.Issuer)

	require.NotNil(t, claims.ExpiresAt)
	expectedExpiry := time.Now().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, time.Minute)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := jwt.Generate(1, "staff", secret, 1)
	require.NoError(t, err)

	_, err = jwt.Validate(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestValidateGarbage(t *testing.T) {
	_, err := jwt.Validate("not.a.token", secret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestValidateExpired(t *testing.T) {
	// Negative expiry puts the token in the past
	token, err := jwt.Generate(1, "staff", secret, -1)
	require.NoError(t, err)

	_, err = jwt.Validate(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
