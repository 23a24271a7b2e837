package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tessro/lilt/internal/config"
)

const (
	// DefaultSessionFileName is the default name for the session file.
	DefaultSessionFileName = "session.json"
)

// Storage handles persisting the session to disk.
type Storage struct {
	path string
}

// NewStorage creates a new session storage at the specified path.
// If path is empty, uses the default location (~/.config/lilt/session.json).
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(dir, DefaultSessionFileName)
	}

	return &Storage{path: path}, nil
}

// Save persists a session to disk.
func (s *Storage) Save(session *Session) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write with restricted permissions (owner only)
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads the session from disk. It returns nil if nobody is signed in.
func (s *Storage) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Not signed in
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &session, nil
}

// Delete removes the stored session.
func (s *Storage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists returns true if a session file exists.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the session file.
func (s *Storage) Path() string {
	return s.path
}

// LoadOrCreateSecret reads the signing secret at path, generating and
// storing a new one if the file does not exist.
func LoadOrCreateSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	secret := NewSecret()
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		return "", fmt.Errorf("failed to write secret file: %w", err)
	}
	return secret, nil
}
