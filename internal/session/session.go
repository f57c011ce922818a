// Package session provides the per-visitor services that outlive a single
// request: the site-wide visitor counter and the cookie-consent record.
// Both are idempotent per session token, so a repeat visit from the same
// browser session is never double counted.
package session

import (
	"context"
	"sync"
)

// Consent is the visitor's recorded cookie-consent choice.
type Consent string

const (
	// ConsentUnset means the visitor has not answered the banner yet.
	ConsentUnset Consent = ""
	// ConsentAccepted means the visitor accepted the cookie notice.
	ConsentAccepted Consent = "accepted"
	// ConsentDismissed means the visitor dismissed the notice without
	// accepting.
	ConsentDismissed Consent = "dismissed"
)

// Valid reports whether the value is a storable consent choice.
func (c Consent) Valid() bool {
	return c == ConsentAccepted || c == ConsentDismissed
}

// Store persists visitor and consent state keyed by session token.
type Store interface {
	// VisitorCount returns the current total visitor count.
	VisitorCount(ctx context.Context) (int64, error)

	// RegisterVisitor counts the session once: the first call for a token
	// increments the total and returns it, repeats return the current
	// total unchanged.
	RegisterVisitor(ctx context.Context, token string) (int64, error)

	// Consent returns the stored consent choice for the token, or
	// ConsentUnset.
	Consent(ctx context.Context, token string) (Consent, error)

	// SetConsent records the consent choice for the token.
	SetConsent(ctx context.Context, token string, status Consent) error
}

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is an in-memory Store for development and testing.
type Memory struct {
	mu       sync.Mutex
	total    int64
	sessions map[string]struct{}
	consents map[string]Consent
}

// NewMemory creates an in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]struct{}),
		consents: make(map[string]Consent),
	}
}

// VisitorCount returns the current total.
func (m *Memory) VisitorCount(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, nil
}

// RegisterVisitor counts the token once.
func (m *Memory) RegisterVisitor(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.sessions[token]; !seen {
		m.sessions[token] = struct{}{}
		m.total++
	}
	return m.total, nil
}

// Consent returns the stored choice for the token.
func (m *Memory) Consent(_ context.Context, token string) (Consent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consents[token], nil
}

// SetConsent records the choice for the token.
func (m *Memory) SetConsent(_ context.Context, token string, status Consent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consents[token] = status
	return nil
}
