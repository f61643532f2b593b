package domain

import "time"

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID            string       `json:"userID"` // Primary Key (e.g., UUID)
	Username          string       `json:"username"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	PasswordHash      string       `json:"-"` // Empty for external auth providers
	AuthProvider      AuthProvider `json:"authProvider"`
	ProviderUserID    string       `json:"-"` // Subject claim from the external provider
	PreferredCurrency string       `json:"preferredCurrency"` // ISO 4217 code summaries are reported in
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Refresh token state, never serialized to clients.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
