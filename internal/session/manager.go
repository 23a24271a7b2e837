package session

import (
	"fmt"
	"time"

	lilterrors "github.com/tessro/lilt/internal/errors"
)

// Manager signs users in and out and resolves the current session.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	storage *Storage
}

// NewManager creates a session manager.
func NewManager(secret string, ttl time.Duration, storage *Storage) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, storage: storage}
}

// Secret returns the signing secret, for token middleware.
func (m *Manager) Secret() []byte {
	return m.secret
}

// Storage returns the backing file storage.
func (m *Manager) Storage() *Storage {
	return m.storage
}

// Login issues a session for email and stores it.
func (m *Manager) Login(email string) (*Session, error) {
	s, err := Issue(m.secret, email, m.ttl)
	if err != nil {
		return nil, err
	}
	if err := m.storage.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout forgets the stored session.
func (m *Manager) Logout() error {
	return m.storage.Delete()
}

// Current returns the verified stored session, or nil if nobody is signed in.
// A stored token that fails verification is reported as ErrNotSignedIn.
func (m *Manager) Current() (*Session, error) {
	stored, err := m.storage.Load()
	if err != nil || stored == nil {
		return nil, err
	}
	s, err := Verify(m.secret, stored.Token)
	if err != nil {
		return nil, lilterrors.WithSuggestion(
			fmt.Errorf("stored session is no longer valid: %w", err),
			"Run 'lilt auth login --email you@example.com' to sign in again",
		)
	}
	return s, nil
}
