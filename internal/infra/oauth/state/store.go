// Package state implements the single-use anti-CSRF state store backing
// OAuth redirect flows.
package state

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"multimusic/internal/domain/service"
)

const tokenBytes = 32

type record struct {
	payload   string
	expiresAt time.Time
}

// Store is an in-memory implementation of service.StateStore. States are
// process-local, which matches a single-instance gateway deployment.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]record
}

// New creates a store whose states expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]record),
	}
}

var _ service.StateStore = (*Store)(nil)

// Issue mints a new random state and remembers its payload until the TTL
// elapses or the state is consumed.
func (s *Store) Issue(payload string) string {
	buf := make([]byte, tokenBytes)
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)
	token := base64.RawURLEncoding.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.records[token] = record{
		payload:   payload,
		expiresAt: s.now().Add(s.ttl),
	}

	return token
}

// Consume redeems a state exactly once. Expired, unknown and already
// consumed states all report ok=false.
func (s *Store) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[state]
	if !ok {
		return "", false
	}
	delete(s.records, state)

	if s.now().After(rec.expiresAt) {
		return "", false
	}

	return rec.payload, true
}

// pruneLocked drops expired records. Called with s.mu held.
func (s *Store) pruneLocked() {
	now := s.now()
	for token, rec := range s.records {
		if now.After(rec.expiresAt) {
			delete(s.records, token)
		}
	}
}
