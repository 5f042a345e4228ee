package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m, err := NewJWTManager("s3cret", 0)
	require.NoError(t, err)

	token, expiresAt, err := m.Issue("42")
	require.NoError(t, err)
	assert.True(t, expiresAt.IsZero())

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Nil(t, claims.ExpiresAt)
}

func TestJWTManagerExpiry(t *testing.T) {
	m, err := NewJWTManager("s3cret", time.Hour)
	require.NoError(t, err)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, expiresAt, err := m.Issue("42")
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), expiresAt)

	_, err = m.Validate(token)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManagerRejectsForeignTokens(t *testing.T) {
	m, err := NewJWTManager("s3cret", 0)
	require.NoError(t, err)
	other, err := NewJWTManager("different", 0)
	require.NoError(t, err)

	token, _, err := other.Issue("42")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "42"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.Error(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = m.Validate(noUser)
	assert.Error(t, err)
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", 0)
	assert.Error(t, err)
}
