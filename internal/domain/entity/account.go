package entity

import (
	"time"
)

// Account is the core entity of the system, representing one internal user.
// It aggregates any number of SSO identity links and platform connections.
// Accounts are created on the first successful SSO callback and are never
// deleted by this system.
type Account struct {
	ID              string    // Internal identifier, "mmp_" followed by 32 hex characters.
	Email           string    // Primary contact email, taken from the first SSO identity.
	DisplayName     string    // Display name reported by the SSO provider.
	AvatarURL       string    // Avatar URL reported by the SSO provider, may be empty.
	PrimaryProvider Provider  // The SSO provider that created this account.
	CreatedAt       time.Time // Timestamp of account creation.
	UpdatedAt       time.Time // Timestamp of the last modification.
}
