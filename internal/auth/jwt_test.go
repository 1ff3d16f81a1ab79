package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.GenerateAccessToken("ops", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(raw)
	require.NoError(t, err)

	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	raw, err := NewManager("one", time.Hour).GenerateAccessToken("ops", RoleAdmin)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).VerifyAccessToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	raw, err := m.GenerateAccessToken("ops", RoleAdmin)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }

	_, err = m.VerifyAccessToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_RejectsOtherTokenTypes(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	claims := Claims{
		Role:      RoleAdmin,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(raw)
	assert.True(t, errors.Is(err, ErrInvalidTokenType))
}

func TestManager_RejectsNoneAlgorithm(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: tokenTypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(raw)
	assert.Error(t, err)
}
