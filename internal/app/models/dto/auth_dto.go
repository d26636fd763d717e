package dto

// GoogleLoginRequest carries the Google-issued ID token
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// MicrosoftLoginRequest carries the Microsoft-issued access token
type MicrosoftLoginRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

// ValidateTokenRequest carries a session credential to inspect
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginResponse represents a successful provider login
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"tokenType" example:"Bearer"`
	ExpiresIn int           `json:"expiresIn"`
	User      *UserResponse `json:"user"`
	IsNewUser bool          `json:"isNewUser"`
}

// TokenClaimsResponse echoes the validated session credential claims
type TokenClaimsResponse struct {
	StudentID         int64  `json:"studentId"`
	Email             string `json:"email"`
	ProviderID        string `json:"providerId"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	ExpiresAt         int64  `json:"expiresAt"`
}

// SessionCheckResponse echoes the identity attached to the session
type SessionCheckResponse struct {
	StudentID         int64  `json:"studentId"`
	Email             string `json:"email"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}

// UpdateProfileRequest represents a partial profile update. Every field is
// optional, but at least one must be present.
type UpdateProfileRequest struct {
	Identificacion *string   `json:"identificacion,omitempty"`
	Carreras       *[]string `json:"carreras,omitempty"`
	Materias       *[]string `json:"materias,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Identificacion == nil && r.Carreras == nil && r.Materias == nil
}
