// Package identity validates provider-issued tokens and normalizes the
// resulting claims so the reconciliation flow stays provider-agnostic.
package identity

import "context"

// Provider names
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// ProviderClaims is the normalized claim set returned by every verifier.
// It contains identity facts only, no account decisions.
type ProviderClaims struct {
	Provider      string // "google" or "microsoft"
	ProviderID    string // provider-scoped unique subject identifier
	Email         string
	EmailVerified bool
	FullName      string
	PictureURL    string
}

// Verifier exchanges an opaque provider token for verified claims.
// Implementations are constructed once at startup from configuration and
// passed by reference into the reconciliation service.
type Verifier interface {
	// Name returns the provider identifier
	Name() string

	// Verify validates the raw token against the provider's signing material
	// and expected audience, returning normalized claims.
	// Any validation failure maps to apperrors.ErrInvalidProviderToken.
	Verify(ctx context.Context, rawToken string) (*ProviderClaims, error)
}
