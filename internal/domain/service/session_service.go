package service

// SessionService issues and verifies the bearer tokens that represent a
// signed-in account.
type SessionService interface {
	// Issue creates a signed session token for the given account id.
	Issue(accountID string) (string, error)

	// Verify validates a session token and returns the account id it was
	// issued for.
	Verify(token string) (string, error)
}
