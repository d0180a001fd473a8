package security

import (
	"testing"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-with-at-least-32-characters!"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateToken(42, domain.RoleManager, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	caller, err := tm.ResolveCaller(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), caller.UserID)
	assert.Equal(t, domain.RoleManager, caller.Role)
}

func TestTokenManager_EmptyRoleDefaultsToCustomer(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateToken(7, "", time.Hour)
	assert.NoError(t, err)

	caller, err := tm.ResolveCaller(token)
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, caller.Role)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateToken(42, domain.RoleCustomer, -time.Minute)
	assert.NoError(t, err)

	_, err = tm.ResolveCaller(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret)
	other := NewTokenManager("another-secret-with-at-least-32-chars!!")

	token, err := other.GenerateToken(42, domain.RoleCustomer, time.Hour)
	assert.NoError(t, err)

	_, err = tm.ResolveCaller(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	tm := NewTokenManager(testSecret)

	_, err := tm.ResolveCaller("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
