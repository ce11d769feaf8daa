package entity

import (
	"time"
)

// PlatformConnection links a music-platform account (e.g. Spotify) to an
// internal account and carries its OAuth tokens. Token fields hold the
// encrypted form when the connection has been loaded from or is headed to
// the store; plaintext never touches persistence.
//
// The token validity window is [issued, ExpiresAt): past expiry the refresh
// token is mandatory input to obtain a new access token. A connection is
// destroyed on explicit disconnect.
type PlatformConnection struct {
	AccountID      string    // The internal account owning this connection.
	Platform       Platform  // The connected platform, e.g. "spotify".
	PlatformUserID string    // The platform's own user id.
	AccessToken    string    // Encrypted OAuth access token.
	RefreshToken   string    // Encrypted OAuth refresh token.
	Scope          string    // Granted OAuth scope.
	ExpiresIn      int64     // Access token lifetime in seconds, as granted.
	ExpiresAt      time.Time // Absolute access token expiry.
	ConnectedAt    time.Time // Timestamp of the first connect.
	UpdatedAt      time.Time // Timestamp of the last token update.
}

// Expired reports whether the cached access token may no longer be reused.
func (c *PlatformConnection) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
