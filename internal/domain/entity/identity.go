package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdentityLink ties one external SSO identity (e.g. a Google account) to an
// internal account. There is at most one link per (account, provider) pair,
// and a provider subject id maps to at most one account.
type IdentityLink struct {
	ID        uuid.UUID // Unique ID of this link record.
	AccountID string    // The internal account this identity belongs to.
	Provider  Provider  // The SSO provider, e.g. "google".
	SubjectID string    // The provider-assigned subject id (e.g. Google's 'sub' claim).
	Email     string    // Email reported by the provider at link time.
	LinkedAt  time.Time // Timestamp of when this identity was linked.
}
