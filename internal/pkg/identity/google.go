package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

const googleIssuer = "https://accounts.google.com"

// GoogleVerifier validates Google ID tokens against Google's published
// signing keys and the configured OAuth client ID.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier creates a verifier bound to the given client ID.
// Discovery of Google's signing keys happens here, once, at startup.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client ID is required")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Name returns the provider identifier
func (v *GoogleVerifier) Name() string {
	return ProviderGoogle
}

// Verify validates a Google ID token and returns normalized claims
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*ProviderClaims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidProviderToken, err)
	}

	var payload struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&payload); err != nil {
		return nil, fmt.Errorf("%w: claims parse failed: %v", apperrors.ErrInvalidProviderToken, err)
	}

	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", apperrors.ErrInvalidProviderToken)
	}

	return &ProviderClaims{
		Provider:      ProviderGoogle,
		ProviderID:    payload.Subject,
		Email:         payload.Email,
		EmailVerified: payload.EmailVerified,
		FullName:      payload.Name,
		PictureURL:    payload.Picture,
	}, nil
}
