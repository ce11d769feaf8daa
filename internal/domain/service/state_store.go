package service

// StateStore issues single-use anti-CSRF state values for OAuth redirects.
// A state expires after a short TTL and is invalidated on first consumption.
type StateStore interface {
	// Issue mints a new state value and associates the given payload with
	// it. The payload travels server-side only.
	Issue(payload string) string

	// Consume validates a state value, returns its payload and removes it.
	// ok is false for unknown, expired or already-consumed states.
	Consume(state string) (payload string, ok bool)
}
