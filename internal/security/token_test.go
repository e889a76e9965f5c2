package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-that-is-long-enough-1234")

	token, err := tm.GenerateToken(7, "Jess", RoleStaff, time.Hour)
	assert.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), claims.UserID)
	assert.Equal(t, "Jess", claims.Name)
	assert.Equal(t, RoleStaff, claims.Role)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-that-is-long-enough-1234")

	token, err := tm.GenerateToken(7, "Jess", RolePatron, -time.Minute)
	assert.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-that-is-long-enough-1234")
	other := NewTokenManager("a-completely-different-secret-567890")

	token, err := tm.GenerateToken(7, "Jess", RolePatron, time.Hour)
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret-that-is-long-enough-1234")
	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
