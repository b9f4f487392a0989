// Package session maps opaque bearer tokens to authenticated accounts.
//
// Tokens are random and server-side only; nothing about the account is
// derivable from the token itself.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	accountID int64
	expires   time.Time
}

// Manager issues, resolves, and revokes session tokens with a fixed TTL.
type Manager struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
	now func() time.Time
}

// New constructs a Manager. A non-positive ttl means sessions never expire.
func New(ttl time.Duration) *Manager {
	return &Manager{ttl: ttl, m: make(map[string]entry), now: time.Now}
}

// Issue creates a fresh token for the account.
func (s *Manager) Issue(accountID int64) string {
	tok := uuid.NewString()
	e := entry{accountID: accountID}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.m[tok] = e
	s.mu.Unlock()
	return tok
}

// Resolve returns the account id behind a token, or false for an unknown or
// expired token. Expired entries are dropped on sight.
func (s *Manager) Resolve(token string) (int64, bool) {
	s.mu.RLock()
	e, ok := s.m[token]
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return 0, false
	}
	return e.accountID, true
}

// Revoke invalidates a token. Revoking an unknown token is a no-op.
func (s *Manager) Revoke(token string) {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
}
