package models

import (
	"database/sql"
	"time"
)

// User represents a row in the users table.
type User struct {
	UserID            string         `db:"user_id"`
	Username          string         `db:"username"`
	Email             string         `db:"email"`
	Name              string         `db:"name"`
	PasswordHash      sql.NullString `db:"password_hash"` // NULL for external auth providers
	AuthProvider      string         `db:"auth_provider"`
	ProviderUserID    sql.NullString `db:"provider_user_id"`
	PreferredCurrency string         `db:"preferred_currency"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`        // Store hash of the refresh token
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"` // Expiry of the stored refresh token
}
