package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

func TestMicrosoftVerify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/me", r.URL.Path)
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "ms-user-1",
			"displayName": "Ana Martínez",
			"mail": "ana@uni.edu",
			"userPrincipalName": "ana@uni.onmicrosoft.com"
		}`))
	}))
	defer server.Close()

	verifier := NewMicrosoftVerifier(WithGraphBaseURL(server.URL))

	claims, err := verifier.Verify(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, ProviderMicrosoft, claims.Provider)
	assert.Equal(t, "ms-user-1", claims.ProviderID)
	assert.Equal(t, "ana@uni.edu", claims.Email)
	assert.Equal(t, "Ana Martínez", claims.FullName)
	assert.True(t, claims.EmailVerified)
}

func TestMicrosoftVerify_FallsBackToUserPrincipalName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "ms-user-2", "displayName": "Luis", "userPrincipalName": "luis@uni.onmicrosoft.com"}`))
	}))
	defer server.Close()

	verifier := NewMicrosoftVerifier(WithGraphBaseURL(server.URL))

	claims, err := verifier.Verify(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "luis@uni.onmicrosoft.com", claims.Email)
}

func TestMicrosoftVerify_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	verifier := NewMicrosoftVerifier(WithGraphBaseURL(server.URL))

	_, err := verifier.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidProviderToken)
}

func TestMicrosoftVerify_EmptyToken(t *testing.T) {
	verifier := NewMicrosoftVerifier()

	_, err := verifier.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidProviderToken)
}

func TestMicrosoftVerify_MissingProfileID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"displayName": "Nobody"}`))
	}))
	defer server.Close()

	verifier := NewMicrosoftVerifier(WithGraphBaseURL(server.URL))

	_, err := verifier.Verify(context.Background(), "valid-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidProviderToken)
}
