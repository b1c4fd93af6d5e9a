package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateIsRandom(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAuthenticateRequiresConfig(t *testing.T) {
	svc := NewGoogleOAuthService(GoogleOAuthConfig{})
	_, err := svc.Authenticate(context.Background(), "code")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}

func TestFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","email":"owner@sparkle.test","verified_email":true,"name":"Dana Owner"}`))
	}))
	defer srv.Close()

	svc := NewGoogleOAuthService(GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret", UserInfoURL: srv.URL})

	info, err := svc.fetchUserInfo(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "owner@sparkle.test", info.Email)
	assert.True(t, info.VerifiedEmail)
}

func TestFetchUserInfoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewGoogleOAuthService(GoogleOAuthConfig{UserInfoURL: srv.URL})
	_, err := svc.fetchUserInfo(context.Background(), srv.Client())
	assert.ErrorIs(t, err, ErrFailedToGetUser)
}
