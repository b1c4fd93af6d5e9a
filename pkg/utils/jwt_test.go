package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "owner@sparkle.test", []string{"owner"}, false)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@sparkle.test", claims.Email)
	assert.False(t, claims.SuperAdmin)
}

func TestAccessTokenRejectsOtherSecret(t *testing.T) {
	issuer := NewJWTManager("secret", time.Minute, time.Hour)
	verifier := NewJWTManager("different", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "a@b.test", nil, false)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "a@b.test", nil, false)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
